package survey

import "errors"

var ErrNoActiveQuestion = errors.New("no active question")

// Session tracks one call's progress through the script. The index starts at -1
// (greeting phase) and only ever moves forward. A Session belongs to exactly one
// call and is never shared or reused.
type Session struct {
	callID     string
	script     []Question
	index      int
	answers    map[string]interface{}
	transcript []string
	completed  bool
}

func NewSession(callID string, script []Question) *Session {
	answers := make(map[string]interface{}, len(script))
	for _, q := range script {
		answers[q.ID] = q.AnswerType.Sentinel()
	}

	return &Session{
		callID:  callID,
		script:  script,
		index:   -1,
		answers: answers,
	}
}

func (s *Session) CallID() string {
	return s.callID
}

func (s *Session) Index() int {
	return s.index
}

func (s *Session) InGreeting() bool {
	return s.index < 0
}

func (s *Session) Completed() bool {
	return s.completed
}

// CurrentQuestion returns the active question, or false during the greeting
// phase and after completion.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.index < 0 || s.index >= len(s.script) {
		return Question{}, false
	}
	return s.script[s.index], true
}

func (s *Session) CurrentPrompt() (string, bool) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return "", false
	}
	return q.Prompt, true
}

// RecordAnswer stores value under the active question's id. Outside the question
// phase there is nothing to record and ErrNoActiveQuestion is returned.
func (s *Session) RecordAnswer(value interface{}) error {
	q, ok := s.CurrentQuestion()
	if !ok {
		return ErrNoActiveQuestion
	}

	s.answers[q.ID] = value
	return nil
}

// Advance moves to the next question and reports whether one is now active.
// Reaching the end of the script marks the session completed; once completed the
// index stays at its terminal value no matter how often Advance is called.
func (s *Session) Advance() bool {
	if s.completed {
		return false
	}

	s.index++
	if s.index >= len(s.script) {
		s.completed = true
		return false
	}

	return true
}

// AddLine appends a speaker-tagged line to the transcript. Lines are append-only
// and keep arrival order.
func (s *Session) AddLine(speaker, text string) string {
	line := speaker + ": " + text
	s.transcript = append(s.transcript, line)
	return line
}

func (s *Session) Transcript() []string {
	out := make([]string, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) Answers() map[string]interface{} {
	out := make(map[string]interface{}, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}
