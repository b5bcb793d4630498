package callService

import (
	"context"
	"io"
	"sync"
	"testing"

	"ProjectRiya/internal/entity"
	"ProjectRiya/pkg/livekit"
	"ProjectRiya/pkg/nlp"
	"ProjectRiya/pkg/survey"

	"github.com/sirupsen/logrus"
)

type spokenLine struct {
	text          string
	interruptible bool
}

type fakeRoomSession struct {
	events chan livekit.Event

	mu     sync.Mutex
	spoken []spokenLine
	closed bool
}

func newFakeRoomSession() *fakeRoomSession {
	return &fakeRoomSession{events: make(chan livekit.Event, 16)}
}

func (f *fakeRoomSession) Room() string {
	return "feedback-test"
}

func (f *fakeRoomSession) Events() <-chan livekit.Event {
	return f.events
}

func (f *fakeRoomSession) Say(_ context.Context, text string, allowInterruptions bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, spokenLine{text: text, interruptible: allowInterruptions})
	return nil
}

func (f *fakeRoomSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

func (f *fakeRoomSession) utter(text string) {
	f.events <- livekit.Event{Type: livekit.EventUserUtterance, Content: livekit.TextContent(text)}
}

func (f *fakeRoomSession) spokenLines() []spokenLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]spokenLine, len(f.spoken))
	copy(out, f.spoken)
	return out
}

func newTestController(room *fakeRoomSession) (*turnController, *survey.Session, *[]string) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	surveySession := survey.NewSession("call-test", survey.DefaultScript())

	var lines []string
	controller := newTurnController(logger, room, surveySession, nlp.NewAnswerExtractor(),
		func(line string, _ entity.CallSnapshot) {
			lines = append(lines, line)
		})

	return controller, surveySession, &lines
}

func TestTurnControllerCompletesSurvey(t *testing.T) {
	room := newFakeRoomSession()
	controller, surveySession, lines := newTestController(room)

	room.utter("haan ji")
	room.utter("paanch")
	room.utter("haan bilkul")
	room.utter("teen")
	room.utter("nahi")
	room.utter("Service advisor ka behavior bahut accha tha, overall happy hoon")

	status := controller.Run(context.Background())

	if status != entity.CallStatusCompleted {
		t.Fatalf("got status %q, want %q", status, entity.CallStatusCompleted)
	}

	answers := surveySession.Answers()
	wantAnswers := map[string]interface{}{
		"q1_overall_rating_1to5":      5,
		"q2_washing_yesno":            "yes",
		"q3_advisor_behavior_1to5":    3,
		"q4_promised_time_yesno":      "no",
		"q5_additional_comments_text": "Service advisor ka behavior bahut accha tha, overall happy hoon",
	}
	for id, want := range wantAnswers {
		if got := answers[id]; got != want {
			t.Fatalf("answer %s: got %v, want %v", id, got, want)
		}
	}

	spoken := room.spokenLines()
	if len(spoken) != 7 {
		t.Fatalf("got %d spoken lines, want 7", len(spoken))
	}
	if spoken[0].text != survey.Greeting || !spoken[0].interruptible {
		t.Fatalf("greeting spoken wrong: %+v", spoken[0])
	}
	last := spoken[len(spoken)-1]
	if last.text != survey.CompletionFarewell || last.interruptible {
		t.Fatalf("farewell spoken wrong: %+v", last)
	}

	transcript := surveySession.Transcript()
	if transcript[0] != "Riya: "+survey.Greeting {
		t.Fatalf("transcript starts with %q", transcript[0])
	}
	if transcript[1] != "User: haan ji" {
		t.Fatalf("transcript[1] = %q", transcript[1])
	}
	if transcript[len(transcript)-1] != "Riya: "+survey.CompletionFarewell {
		t.Fatalf("transcript ends with %q", transcript[len(transcript)-1])
	}

	if len(*lines) != len(transcript) {
		t.Fatalf("got %d published lines, want %d", len(*lines), len(transcript))
	}
	for i, line := range transcript {
		if (*lines)[i] != line {
			t.Fatalf("published line %d = %q, want %q", i, (*lines)[i], line)
		}
	}

	if !room.closed {
		t.Fatal("room was not closed after completion")
	}
}

func TestTurnControllerDeclinedConsent(t *testing.T) {
	room := newFakeRoomSession()
	controller, surveySession, _ := newTestController(room)

	room.utter("Abhi mat karo")

	status := controller.Run(context.Background())

	if status != entity.CallStatusDeclined {
		t.Fatalf("got status %q, want %q", status, entity.CallStatusDeclined)
	}

	answers := surveySession.Answers()
	wantSentinels := map[string]interface{}{
		"q1_overall_rating_1to5":      0,
		"q2_washing_yesno":            "unknown",
		"q3_advisor_behavior_1to5":    0,
		"q4_promised_time_yesno":      "unknown",
		"q5_additional_comments_text": "",
	}
	for id, want := range wantSentinels {
		if got := answers[id]; got != want {
			t.Fatalf("answer %s: got %v, want %v", id, got, want)
		}
	}

	spoken := room.spokenLines()
	if len(spoken) != 2 {
		t.Fatalf("got %d spoken lines, want 2", len(spoken))
	}
	last := spoken[1]
	if last.text != survey.DeclineFarewell || last.interruptible {
		t.Fatalf("decline farewell spoken wrong: %+v", last)
	}
}

func TestTurnControllerRoomClosedMidSurvey(t *testing.T) {
	room := newFakeRoomSession()
	controller, surveySession, _ := newTestController(room)

	room.utter("haan ji")
	room.utter("chaar")
	if err := room.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	status := controller.Run(context.Background())

	if status != entity.CallStatusEnded {
		t.Fatalf("got status %q, want %q", status, entity.CallStatusEnded)
	}

	answers := surveySession.Answers()
	if got := answers["q1_overall_rating_1to5"]; got != 4 {
		t.Fatalf("q1 answer: got %v, want 4", got)
	}
	if got := answers["q2_washing_yesno"]; got != "unknown" {
		t.Fatalf("q2 answer: got %v, want unknown", got)
	}
}

func TestTurnControllerSkipsEmptyUtterance(t *testing.T) {
	room := newFakeRoomSession()
	controller, surveySession, _ := newTestController(room)

	room.events <- livekit.Event{Type: livekit.EventUserUtterance, Content: livekit.TextContent("   ")}
	room.utter("haan ji")
	room.utter("ek")
	if err := room.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	controller.Run(context.Background())

	transcript := surveySession.Transcript()
	if transcript[1] != "User: haan ji" {
		t.Fatalf("transcript[1] = %q, empty utterance was recorded", transcript[1])
	}
	if got := surveySession.Answers()["q1_overall_rating_1to5"]; got != 1 {
		t.Fatalf("q1 answer: got %v, want 1", got)
	}
}

func TestTurnControllerCancelledContext(t *testing.T) {
	room := newFakeRoomSession()
	controller, _, _ := newTestController(room)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status := controller.Run(ctx)

	if status != entity.CallStatusEnded {
		t.Fatalf("got status %q, want %q", status, entity.CallStatusEnded)
	}
	if !room.closed {
		t.Fatal("room was not closed after cancellation")
	}
}
