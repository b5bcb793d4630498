package livekit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content carries the text of one user utterance. Recognizers deliver
// either a plain string or a list of text parts, and the odd payload
// that is neither. Every shape decodes, nothing is rejected.
type Content struct {
	value string
	parts []string
	multi bool
}

func TextContent(text string) Content {
	return Content{value: text}
}

func PartsContent(parts ...string) Content {
	return Content{parts: parts, multi: true}
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*c = Content{value: asString}
		return nil
	}

	var asList []interface{}
	if err := json.Unmarshal(data, &asList); err == nil {
		parts := make([]string, 0, len(asList))
		for _, item := range asList {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, fmt.Sprint(item))
			}
		}
		*c = Content{parts: parts, multi: true}
		return nil
	}

	var asAny interface{}
	if err := json.Unmarshal(data, &asAny); err == nil {
		if asAny == nil {
			*c = Content{}
			return nil
		}
		*c = Content{value: fmt.Sprint(asAny)}
		return nil
	}

	// last resort, keep the raw bytes as text
	*c = Content{value: strings.TrimSpace(string(data))}
	return nil
}

// Normalize flattens the variant to a single string. Parts are joined
// with single spaces.
func (c Content) Normalize() string {
	if c.multi {
		return strings.Join(c.parts, " ")
	}
	return c.value
}
