package nlp

import "testing"

func TestExtractRating(t *testing.T) {
	ae := NewAnswerExtractor()

	cases := []struct {
		name string
		text string
		want int
	}{
		{name: "bare_digit", text: "5", want: 5},
		{name: "digit_in_sentence", text: "main 4 dungi", want: 4},
		{name: "hindi_latin", text: "paanch", want: 5},
		{name: "first_token_wins", text: "do teen", want: 2},
		{name: "containment", text: "ekdum", want: 1},
		{name: "containment_suffix", text: "teenon", want: 3},
		{name: "fuzzy_one_substitution", text: "fige", want: 5},
		{name: "fuzzy_hindi", text: "chor", want: 4},
		{name: "fuzzy_needs_equal_length", text: "si", want: 0},
		{name: "devanagari_four", text: "चार", want: 4},
		{name: "devanagari_one", text: "एक", want: 1},
		{name: "unrelated_word", text: "banana", want: 0},
		{name: "empty", text: "", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ae.ExtractRating(tc.text)
			if got != tc.want {
				t.Fatalf("ExtractRating(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractRatingCoversLexicon(t *testing.T) {
	ae := NewAnswerExtractor()

	for _, entry := range ae.ratingWords {
		got := ae.ExtractRating(entry.word)
		if got != entry.value {
			t.Fatalf("ExtractRating(%q) = %d, want %d", entry.word, got, entry.value)
		}
	}
}

func TestExtractYesNo(t *testing.T) {
	ae := NewAnswerExtractor()

	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "simple_yes", text: "haan", want: AnswerYes},
		{name: "yes_with_filler", text: "Haanji bilkul", want: AnswerYes},
		{name: "simple_no", text: "nahi", want: AnswerNo},
		{name: "yes_phrase", text: "theek hai", want: AnswerYes},
		{name: "first_token_decides", text: "nahi haan", want: AnswerNo},
		{name: "glued_yes", text: "theekhai", want: AnswerYes},
		{name: "glued_no", text: "nahibhai", want: AnswerNo},
		{name: "devanagari_yes", text: "हाँ", want: AnswerYes},
		{name: "devanagari_no", text: "नहीं", want: AnswerNo},
		{name: "unrelated_short", text: "kya", want: AnswerUnknown},
		{name: "filler_only", text: "hmm", want: AnswerUnknown},
		{name: "empty", text: "", want: AnswerUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ae.ExtractYesNo(tc.text)
			if got != tc.want {
				t.Fatalf("ExtractYesNo(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractFreeText(t *testing.T) {
	ae := NewAnswerExtractor()

	longComment := "Service advisor nahi aaye the lekin baaki sab theek raha aur delivery time pe hui"

	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "trims_and_keeps_case", text: "  Sab theek tha  ", want: "Sab theek tha"},
		{name: "no_comment_hindi", text: "Kuch nahi", want: NoCommentsAnswer},
		{name: "no_comment_english", text: "nothing", want: NoCommentsAnswer},
		{name: "no_comment_phrase", text: "bas itna hi", want: NoCommentsAnswer},
		{name: "empty", text: "", want: NoResponseAnswer},
		{name: "whitespace_only", text: "   ", want: NoResponseAnswer},
		{name: "long_text_kept_despite_phrase", text: longComment, want: longComment},
		{name: "real_comment", text: "Good service", want: "Good service"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ae.ExtractFreeText(tc.text)
			if got != tc.want {
				t.Fatalf("ExtractFreeText(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestIsAffirmative(t *testing.T) {
	ae := NewAnswerExtractor()

	cases := []struct {
		name string
		text string
		want bool
	}{
		{name: "hindi_yes", text: "Haan bilkul", want: true},
		{name: "devanagari", text: "जी हाँ", want: true},
		{name: "english_ok", text: "ok", want: true},
		{name: "refusal", text: "Nahi", want: false},
		{name: "busy_refusal", text: "Abhi mat karo", want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ae.IsAffirmative(tc.text)
			if got != tc.want {
				t.Fatalf("IsAffirmative(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
