package survey

import "testing"

func TestNewSessionStartsInGreeting(t *testing.T) {
	s := NewSession("call-1", DefaultScript())

	if !s.InGreeting() {
		t.Fatalf("expected new session to be in greeting phase, index = %d", s.Index())
	}
	if s.Completed() {
		t.Fatal("new session must not be completed")
	}
	if _, ok := s.CurrentPrompt(); ok {
		t.Fatal("no prompt expected during greeting phase")
	}
	if err := s.RecordAnswer(5); err != ErrNoActiveQuestion {
		t.Fatalf("RecordAnswer during greeting: got %v, want ErrNoActiveQuestion", err)
	}
}

func TestNewSessionSeedsSentinels(t *testing.T) {
	script := DefaultScript()
	s := NewSession("call-1", script)

	answers := s.Answers()
	if len(answers) != len(script) {
		t.Fatalf("answers has %d keys, want %d", len(answers), len(script))
	}

	want := map[string]interface{}{
		"q1_overall_rating_1to5":      0,
		"q2_washing_yesno":            "unknown",
		"q3_advisor_behavior_1to5":    0,
		"q4_promised_time_yesno":      "unknown",
		"q5_additional_comments_text": "",
	}
	for id, sentinel := range want {
		got, ok := answers[id]
		if !ok {
			t.Fatalf("missing answer key %q", id)
		}
		if got != sentinel {
			t.Fatalf("sentinel for %q = %v, want %v", id, got, sentinel)
		}
	}
}

func TestSessionWalksScriptInOrder(t *testing.T) {
	script := DefaultScript()
	s := NewSession("call-1", script)

	for i, q := range script {
		if !s.Advance() {
			t.Fatalf("Advance returned false at question %d", i)
		}
		got, ok := s.CurrentQuestion()
		if !ok {
			t.Fatalf("no active question at index %d", i)
		}
		if got.ID != q.ID {
			t.Fatalf("question %d = %q, want %q", i, got.ID, q.ID)
		}
		if err := s.RecordAnswer("x"); err != nil {
			t.Fatalf("RecordAnswer at %d: %v", i, err)
		}
	}

	if s.Advance() {
		t.Fatal("Advance past last question should return false")
	}
	if !s.Completed() {
		t.Fatal("session should be completed after the last question")
	}
}

func TestAdvanceIdempotentOnceCompleted(t *testing.T) {
	script := DefaultScript()
	s := NewSession("call-1", script)

	for s.Advance() {
	}
	if !s.Completed() {
		t.Fatal("session should be completed")
	}

	terminal := s.Index()
	for i := 0; i < 3; i++ {
		if s.Advance() {
			t.Fatal("Advance on completed session must return false")
		}
	}
	if s.Index() != terminal {
		t.Fatalf("index moved after completion: %d, want %d", s.Index(), terminal)
	}
	if terminal != len(script) {
		t.Fatalf("terminal index = %d, want %d", terminal, len(script))
	}
}

func TestRecordAnswerKeepsKeySetFixed(t *testing.T) {
	script := DefaultScript()
	s := NewSession("call-1", script)

	s.Advance()
	if err := s.RecordAnswer(4); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	answers := s.Answers()
	if len(answers) != len(script) {
		t.Fatalf("answers has %d keys after recording, want %d", len(answers), len(script))
	}
	if answers["q1_overall_rating_1to5"] != 4 {
		t.Fatalf("recorded answer = %v, want 4", answers["q1_overall_rating_1to5"])
	}
}

func TestTranscriptKeepsOrder(t *testing.T) {
	s := NewSession("call-1", DefaultScript())

	s.AddLine(AgentSpeaker, "pehla")
	s.AddLine(UserSpeaker, "doosra")
	s.AddLine(AgentSpeaker, "teesra")

	got := s.Transcript()
	want := []string{"Riya: pehla", "User: doosra", "Riya: teesra"}
	if len(got) != len(want) {
		t.Fatalf("transcript has %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
