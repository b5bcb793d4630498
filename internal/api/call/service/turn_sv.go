package callService

import (
	"ProjectRiya/internal/entity"
	"ProjectRiya/pkg/livekit"
	"ProjectRiya/pkg/nlp"
	"ProjectRiya/pkg/survey"
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// turnController runs one call from greeting to farewell. It is the
// only consumer of the room's event stream, so utterances are handled
// strictly one at a time and state never races.
type turnController struct {
	log       *logrus.Logger
	room      livekit.IRoomSession
	survey    *survey.Session
	extractor *nlp.AnswerExtractor
	onLine    func(line string, snapshot entity.CallSnapshot)
	status    entity.CallStatus
	finalized bool
}

func newTurnController(
	log *logrus.Logger,
	room livekit.IRoomSession,
	surveySession *survey.Session,
	extractor *nlp.AnswerExtractor,
	onLine func(line string, snapshot entity.CallSnapshot),
) *turnController {
	return &turnController{
		log:       log,
		room:      room,
		survey:    surveySession,
		extractor: extractor,
		onLine:    onLine,
		status:    entity.CallStatusInProgress,
	}
}

// Run drives the conversation until the survey concludes, the room
// ends, or ctx is cancelled. The returned status is final.
func (c *turnController) Run(ctx context.Context) entity.CallStatus {
	defer c.room.Close()

	c.greet(ctx)

	for {
		select {
		case <-ctx.Done():
			c.finalize(entity.CallStatusEnded)
			return c.status
		case evt, ok := <-c.room.Events():
			if !ok {
				c.finalize(entity.CallStatusEnded)
				return c.status
			}

			c.handleUtterance(ctx, evt)
			if c.finalized {
				return c.status
			}
		}
	}
}

func (c *turnController) Snapshot() entity.CallSnapshot {
	return entity.CallSnapshot{
		CallID:        c.survey.CallID(),
		Status:        c.status,
		QuestionIndex: c.survey.Index(),
		Transcript:    c.survey.Transcript(),
		UpdatedAt:     time.Now(),
	}
}

func (c *turnController) greet(ctx context.Context) {
	// short settle delay so the opening line is not clipped mid-join
	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return
	}

	c.say(ctx, survey.Greeting, true)
}

func (c *turnController) handleUtterance(ctx context.Context, evt livekit.Event) {
	text := evt.Content.Normalize()
	if strings.TrimSpace(text) == "" {
		c.log.WithFields(logrus.Fields{
			"call_id": c.survey.CallID(),
		}).Debug("Skipping empty utterance")
		return
	}

	c.emitLine(c.survey.AddLine(survey.UserSpeaker, text))

	c.log.WithFields(logrus.Fields{
		"call_id":        c.survey.CallID(),
		"question_index": c.survey.Index(),
	}).Debug("User utterance received")

	if c.survey.InGreeting() {
		c.handleConsent(ctx, text)
		return
	}

	c.handleAnswer(ctx, text)
}

func (c *turnController) handleConsent(ctx context.Context, text string) {
	if !c.extractor.IsAffirmative(text) {
		c.say(ctx, survey.DeclineFarewell, false)
		c.waitGrace(ctx)
		c.finalize(entity.CallStatusDeclined)
		return
	}

	c.survey.Advance()
	if prompt, ok := c.survey.CurrentPrompt(); ok {
		c.say(ctx, prompt, true)
	}
}

func (c *turnController) handleAnswer(ctx context.Context, text string) {
	question, ok := c.survey.CurrentQuestion()
	if !ok {
		return
	}

	value := c.extractAnswer(question.AnswerType, text)
	if err := c.survey.RecordAnswer(value); err != nil {
		c.log.WithFields(logrus.Fields{
			"call_id": c.survey.CallID(),
			"error":   err.Error(),
		}).Warn("Failed to record answer")
	}

	c.log.WithFields(logrus.Fields{
		"call_id":  c.survey.CallID(),
		"question": question.ID,
		"answer":   value,
	}).Info("Answer recorded")

	if c.survey.Advance() {
		if prompt, ok := c.survey.CurrentPrompt(); ok {
			c.say(ctx, prompt, true)
		}
		return
	}

	c.say(ctx, survey.CompletionFarewell, false)
	c.waitGrace(ctx)
	c.finalize(entity.CallStatusCompleted)
}

func (c *turnController) extractAnswer(answerType survey.AnswerType, text string) interface{} {
	switch answerType {
	case survey.AnswerTypeRating:
		return c.extractor.ExtractRating(text)
	case survey.AnswerTypeYesNo:
		return c.extractor.ExtractYesNo(text)
	default:
		return c.extractor.ExtractFreeText(text)
	}
}

// say records the line in the transcript before speaking it. Delivery
// failures are logged but never stop the conversation.
func (c *turnController) say(ctx context.Context, text string, allowInterruptions bool) {
	c.emitLine(c.survey.AddLine(survey.AgentSpeaker, text))

	if err := c.room.Say(ctx, text, allowInterruptions); err != nil {
		c.log.WithFields(logrus.Fields{
			"call_id": c.survey.CallID(),
			"error":   err.Error(),
		}).Warn("Failed to speak utterance")
	}
}

func (c *turnController) emitLine(line string) {
	if c.onLine != nil {
		c.onLine(line, c.Snapshot())
	}
}

// waitGrace holds the room open briefly after a farewell so the
// platform can flush the tail of the audio before the disconnect.
func (c *turnController) waitGrace(ctx context.Context) {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
	}
}

func (c *turnController) finalize(status entity.CallStatus) {
	if c.finalized {
		return
	}

	c.finalized = true
	c.status = status
}
