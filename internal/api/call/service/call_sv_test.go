package callService

import (
	"ProjectRiya/internal/api/call"
	"ProjectRiya/pkg/nlp"
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestExtractionDryRun(t *testing.T) {
	svc := &callService{extractor: nlp.NewAnswerExtractor()}

	cases := []struct {
		name       string
		text       string
		answerType string
		want       interface{}
	}{
		{name: "rating_hindi_word", text: "paanch", answerType: "rating_1_5", want: 5},
		{name: "rating_inside_sentence", text: "main teen dunga", answerType: "rating_1_5", want: 3},
		{name: "rating_unmatched", text: "pata nahin kya bolun", answerType: "rating_1_5", want: 0},
		{name: "yesno_affirmative", text: "haan", answerType: "yes_no", want: "yes"},
		{name: "yesno_negative", text: "nahi", answerType: "yes_no", want: "no"},
		{name: "yesno_unknown", text: "kya bolun", answerType: "yes_no", want: "unknown"},
		{name: "freetext_blank", text: "   ", answerType: "free_text", want: "No response"},
		{name: "freetext_nothing_to_add", text: "kuch nahi bhaiya", answerType: "free_text", want: "No additional comments"},
		{
			name:       "freetext_kept_verbatim",
			text:       "Advisor ne time par gaadi ready kar di thi, bahut acchi service rahi",
			answerType: "free_text",
			want:       "Advisor ne time par gaadi ready kar di thi, bahut acchi service rahi",
		},
		{name: "consent_given", text: "haan ji", answerType: "consent", want: true},
		{name: "consent_refused", text: "Abhi mat karo", answerType: "consent", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.TestExtraction(context.Background(), call.ExtractionTestRequest{
				Text:       tc.text,
				AnswerType: tc.answerType,
			})
			if err != nil {
				t.Fatalf("TestExtraction: %v", err)
			}

			if resp.Input != tc.text {
				t.Fatalf("input = %q, want %q", resp.Input, tc.text)
			}
			if resp.AnswerType != tc.answerType {
				t.Fatalf("answer type = %q, want %q", resp.AnswerType, tc.answerType)
			}
			if !reflect.DeepEqual(resp.Value, tc.want) {
				t.Fatalf("value = %v (%T), want %v (%T)", resp.Value, resp.Value, tc.want, tc.want)
			}
		})
	}
}

func TestExtractionDryRunRejectsUnknownType(t *testing.T) {
	svc := &callService{extractor: nlp.NewAnswerExtractor()}

	_, err := svc.TestExtraction(context.Background(), call.ExtractionTestRequest{
		Text:       "haan",
		AnswerType: "sentiment",
	})
	if !errors.Is(err, call.ErrInvalidAnswerType) {
		t.Fatalf("got %v, want invalid answer type error", err)
	}
}
