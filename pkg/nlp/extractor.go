package nlp

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	AnswerYes     = "yes"
	AnswerNo      = "no"
	AnswerUnknown = "unknown"

	NoCommentsAnswer = "No additional comments"
	NoResponseAnswer = "No response"
)

type ratingEntry struct {
	word  string
	value int
}

// AnswerExtractor turns noisy call transcripts into typed survey answers.
// Matching is lexicon driven and deterministic, no model calls involved.
type AnswerExtractor struct {
	ratingWords      []ratingEntry
	yesWords         []string
	noWords          []string
	noCommentPhrases []string
}

func NewAnswerExtractor() *AnswerExtractor {
	return &AnswerExtractor{
		ratingWords: []ratingEntry{
			// Digits and English
			{"5", 5}, {"five", 5}, {"fiv", 5},
			{"4", 4}, {"four", 4}, {"for", 4},
			{"3", 3}, {"three", 3}, {"tree", 3},
			{"2", 2}, {"two", 2}, {"too", 2}, {"tu", 2},
			{"1", 1}, {"one", 1}, {"won", 1},

			// Hindi in Latin script, common mishearings included
			{"paanch", 5}, {"panch", 5}, {"paanj", 5}, {"punch", 5},
			{"chaar", 4}, {"char", 4}, {"caar", 4},
			{"teen", 3}, {"tin", 3}, {"tean", 3}, {"tina", 3},
			{"do", 2}, {"dho", 2},
			{"ek", 1}, {"aek", 1}, {"eak", 1},

			// Devanagari
			{"पांच", 5}, {"पाँच", 5},
			{"चार", 4},
			{"तीन", 3},
			{"दो", 2},
			{"एक", 1},
		},
		yesWords: []string{
			"yes", "yeah", "yep", "yup",
			"haan", "ha", "han", "hun", "haa", "haanji", "hanji",
			"bilkul", "bilkool", "ji", "jee", "ji han", "ji haan",
			"theek", "thik", "teek", "tick",
			"sahi", "sahe", "saahi",
			"okay", "ok", "sure",
			"achha", "acha", "accha",
			"हां", "हाँ", "जी", "बिल्कुल", "ठीक", "सही", "अच्छा",
		},
		noWords: []string{
			"no", "nope", "nah", "na",
			"nahi", "nahin", "nai", "nay", "nehi", "nahe",
			"bilkul nahi", "bilkool nahi",
			"नहीं", "ना", "नाही", "बिलकुल नहीं",
		},
		noCommentPhrases: []string{
			"nahi", "nothing", "kuch nahi", "no comment", "bas itna hi",
		},
	}
}

// normalize folds case after composing combining marks, so Devanagari
// input matches the lexicon regardless of how the recognizer encoded it.
func (ae *AnswerExtractor) normalize(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// ExtractRating maps an utterance to a 1-5 rating, 0 when nothing matches.
// Tokens are scanned left to right and the first resolvable one decides.
func (ae *AnswerExtractor) ExtractRating(text string) int {
	for _, token := range strings.Fields(ae.normalize(text)) {
		// Exact lexicon hit
		for _, entry := range ae.ratingWords {
			if token == entry.word {
				return entry.value
			}
		}

		// Token contains a lexicon word ("paanch," with trailing punctuation)
		for _, entry := range ae.ratingWords {
			if utf8.RuneCountInString(entry.word) > 1 && strings.Contains(token, entry.word) {
				return entry.value
			}
		}

		// Fuzzy pass for short tokens, one substitution allowed
		if utf8.RuneCountInString(token) <= 4 {
			for _, entry := range ae.ratingWords {
				if utf8.RuneCountInString(entry.word) <= 4 && hammingWithin(token, entry.word, 1) {
					return entry.value
				}
			}
		}
	}

	return 0
}

// ExtractYesNo classifies an utterance as "yes", "no" or "unknown".
// Affirmative checks run before negative ones for every token.
func (ae *AnswerExtractor) ExtractYesNo(text string) string {
	for _, token := range strings.Fields(ae.normalize(text)) {
		for _, word := range ae.yesWords {
			if token == word {
				return AnswerYes
			}
		}
		for _, word := range ae.noWords {
			if token == word {
				return AnswerNo
			}
		}

		// Substring pass, words of two runes or fewer excluded
		for _, word := range ae.yesWords {
			if utf8.RuneCountInString(word) > 2 && strings.Contains(token, word) {
				return AnswerYes
			}
		}
		for _, word := range ae.noWords {
			if utf8.RuneCountInString(word) > 2 && strings.Contains(token, word) {
				return AnswerNo
			}
		}
	}

	return AnswerUnknown
}

// ExtractFreeText trims the utterance and folds short "nothing to add"
// replies into a fixed phrase. Casing of real comments is preserved.
func (ae *AnswerExtractor) ExtractFreeText(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NoResponseAnswer
	}

	if utf8.RuneCountInString(trimmed) < 50 {
		lowered := ae.normalize(trimmed)
		for _, phrase := range ae.noCommentPhrases {
			if strings.Contains(lowered, phrase) {
				return NoCommentsAnswer
			}
		}
	}

	return trimmed
}

// IsAffirmative reports whether the text reads as agreement. Both the
// lower-cased and the raw form are checked so non-Latin input matches.
func (ae *AnswerExtractor) IsAffirmative(text string) bool {
	lowered := ae.normalize(text)
	for _, word := range ae.yesWords {
		if strings.Contains(lowered, word) || strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// hammingWithin compares strings rune by rune. Strings of different
// rune length never match.
func hammingWithin(a, b string, max int) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}

	dist := 0
	for i := range ra {
		if ra[i] != rb[i] {
			dist++
			if dist > max {
				return false
			}
		}
	}
	return true
}
