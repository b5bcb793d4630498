package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSaveTranscriptFormat(t *testing.T) {
	w := New(t.TempDir())

	lines := []string{"Riya: Namaste!", "User: haan"}
	path, err := w.SaveTranscript("call-42", lines)
	if err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}

	got := strings.Split(string(data), "\n")
	if len(got) < 5+len(lines) {
		t.Fatalf("transcript too short: %d lines", len(got))
	}
	if got[0] != "TVS Service Center Feedback Call" {
		t.Fatalf("title line = %q", got[0])
	}
	if got[1] != "Call ID: call-42" {
		t.Fatalf("call id line = %q", got[1])
	}
	if !strings.HasPrefix(got[2], "Timestamp: ") {
		t.Fatalf("timestamp line = %q", got[2])
	}
	if got[3] != strings.Repeat("=", 60) {
		t.Fatalf("separator line = %q", got[3])
	}
	if got[4] != "" {
		t.Fatalf("expected blank line after header, got %q", got[4])
	}
	for i, line := range lines {
		if got[5+i] != line {
			t.Fatalf("line %d = %q, want %q", i, got[5+i], line)
		}
	}
}

func TestSaveResultRoundTrip(t *testing.T) {
	w := New(t.TempDir())

	answers := map[string]interface{}{
		"q1_overall_rating_1to5":      4,
		"q2_washing_yesno":            "yes",
		"q3_advisor_behavior_1to5":    5,
		"q4_promised_time_yesno":      "no",
		"q5_additional_comments_text": "बहुत अच्छा service tha",
	}

	path, err := w.SaveResult("call-42", answers, "out/call-42.txt")
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}

	// top level fields keep declaration order, answer keys come out sorted
	order := []string{
		`"call_id"`,
		`"timestamp_ist"`,
		`"language"`,
		`"answers"`,
		`"q1_overall_rating_1to5"`,
		`"q2_washing_yesno"`,
		`"q3_advisor_behavior_1to5"`,
		`"q4_promised_time_yesno"`,
		`"q5_additional_comments_text"`,
		`"transcript_path"`,
	}
	last := -1
	for _, key := range order {
		idx := bytes.Index(data, []byte(key))
		if idx < 0 {
			t.Fatalf("missing key %s", key)
		}
		if idx < last {
			t.Fatalf("key %s out of order", key)
		}
		last = idx
	}

	if !bytes.Contains(data, []byte("बहुत अच्छा")) {
		t.Fatal("non-ASCII answer should be stored unescaped")
	}

	read, err := w.ReadResult("call-42")
	if err != nil {
		t.Fatalf("ReadResult: %v", err)
	}
	if read.CallID != "call-42" || read.Language != "hinglish" {
		t.Fatalf("unexpected result header: %+v", read)
	}
	if read.TranscriptPath != "out/call-42.txt" {
		t.Fatalf("transcript path = %q", read.TranscriptPath)
	}
	if len(read.Answers) != len(answers) {
		t.Fatalf("answers has %d keys, want %d", len(read.Answers), len(answers))
	}
	if got := read.Answers["q1_overall_rating_1to5"]; got != float64(4) {
		t.Fatalf("q1 = %v (%T), want 4", got, got)
	}
	if got := read.Answers["q5_additional_comments_text"]; got != "बहुत अच्छा service tha" {
		t.Fatalf("q5 = %v", got)
	}
}

func TestSaveResultFailsOnBadDir(t *testing.T) {
	dir := t.TempDir()
	blocker := dir + "/taken"
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("prepare blocker file: %v", err)
	}

	w := New(blocker + "/nested")
	if _, err := w.SaveResult("call-1", map[string]interface{}{}, ""); err == nil {
		t.Fatal("expected error when output dir cannot be created")
	}
}
