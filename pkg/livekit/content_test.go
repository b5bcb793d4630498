package livekit

import (
	"encoding/json"
	"testing"
)

func TestContentDecode(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain_string", raw: `"haan bilkul"`, want: "haan bilkul"},
		{name: "list_of_parts", raw: `["service", "achhi", "thi"]`, want: "service achhi thi"},
		{name: "list_with_non_strings", raw: `["rating", 4, true]`, want: "rating 4 true"},
		{name: "empty_list", raw: `[]`, want: ""},
		{name: "bare_number", raw: `5`, want: "5"},
		{name: "bare_bool", raw: `true`, want: "true"},
		{name: "null", raw: `null`, want: ""},
		{name: "object_coerced", raw: `{"text":"haan"}`, want: "map[text:haan]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Content
			if err := json.Unmarshal([]byte(tc.raw), &c); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := c.Normalize(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestContentConstructors(t *testing.T) {
	if got := TextContent("theek hai").Normalize(); got != "theek hai" {
		t.Fatalf("got %q, want %q", got, "theek hai")
	}
	if got := PartsContent("paanch", "out", "of", "paanch").Normalize(); got != "paanch out of paanch" {
		t.Fatalf("got %q, want %q", got, "paanch out of paanch")
	}
}

func TestEventDecodeCarriesContent(t *testing.T) {
	raw := `{"type":"user_utterance_completed","utterance_id":"utt-1","content":["haan","ji"]}`

	var evt Event
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if evt.Type != EventUserUtterance {
		t.Fatalf("got type %q, want %q", evt.Type, EventUserUtterance)
	}
	if evt.UtteranceID != "utt-1" {
		t.Fatalf("got utterance id %q, want %q", evt.UtteranceID, "utt-1")
	}
	if got := evt.Content.Normalize(); got != "haan ji" {
		t.Fatalf("got content %q, want %q", got, "haan ji")
	}
}
