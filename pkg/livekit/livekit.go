package livekit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"ProjectRiya/pkg/s3"
	"ProjectRiya/pkg/tts"
	"ProjectRiya/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventUserUtterance     EventType = "user_utterance_completed"
	EventSpeechFinished    EventType = "speech_finished"
	EventSpeechInterrupted EventType = "speech_interrupted"
	EventRoomClosed        EventType = "room_closed"
)

// Event is one message from the room bridge. Speech completion events
// are consumed inside Say, callers only ever see user utterances.
type Event struct {
	Type        EventType `json:"type"`
	UtteranceID string    `json:"utterance_id,omitempty"`
	Content     Content   `json:"content"`
	Interrupted bool      `json:"interrupted,omitempty"`
}

type speakCommand struct {
	Type               string `json:"type"`
	UtteranceID        string `json:"utterance_id"`
	Text               string `json:"text"`
	AllowInterruptions bool   `json:"allow_interruptions"`
	AudioURL           string `json:"audio_url,omitempty"`
}

var ErrSessionClosed = errors.New("room session closed")

type IDialer interface {
	Dial(ctx context.Context, room string, token string) (IRoomSession, error)
}

// IRoomSession is one live call. Events delivers user utterances in
// arrival order and is closed when the room ends, Say blocks until the
// utterance has been spoken or interrupted.
type IRoomSession interface {
	Room() string
	Events() <-chan Event
	Say(ctx context.Context, text string, allowInterruptions bool) error
	Close() error
}

type dialer struct {
	synth tts.ITTS
	store s3.ItfS3
	util  utils.IUtils
}

// NewDialer returns a dialer for the agent bridge. synth and store are
// optional, when both are set spoken lines are pre-synthesized and the
// audio URL is attached to the speak command.
func NewDialer(synth tts.ITTS, store s3.ItfS3, util utils.IUtils) IDialer {
	return &dialer{
		synth: synth,
		store: store,
		util:  util,
	}
}

func (d *dialer) Dial(ctx context.Context, room string, token string) (IRoomSession, error) {
	wsDialer := websocket.DefaultDialer
	wsDialer.HandshakeTimeout = 10 * time.Second

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	endpoint := fmt.Sprintf("%s?room=%s", getAgentEndpoint(), url.QueryEscape(room))
	conn, _, err := wsDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial room %s: %w", room, err)
	}

	s := &roomSession{
		room:         room,
		conn:         conn,
		synth:        d.synth,
		store:        d.store,
		util:         d.util,
		events:       make(chan Event, 16),
		pending:      make(map[string]chan Event),
		done:         make(chan struct{}),
		pingInterval: 30 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(s.writeTimeout))
	})

	go s.readPump()
	go s.keepAlive()

	logrus.Info(fmt.Sprintf("Joined room %s", room))
	return s, nil
}

type roomSession struct {
	room  string
	conn  *websocket.Conn
	synth tts.ITTS
	store s3.ItfS3
	util  utils.IUtils

	writeMu   sync.Mutex
	pendingMu sync.Mutex
	pending   map[string]chan Event

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	pingInterval time.Duration
	writeTimeout time.Duration
}

func (s *roomSession) Room() string {
	return s.room
}

func (s *roomSession) Events() <-chan Event {
	return s.events
}

// Say sends one speak command and waits for the bridge to report the
// utterance finished or interrupted. Interruption is not an error.
func (s *roomSession) Say(ctx context.Context, text string, allowInterruptions bool) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	id, err := s.util.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return fmt.Errorf("failed to create utterance id: %w", err)
	}

	cmd := speakCommand{
		Type:               "speak",
		UtteranceID:        id,
		Text:               text,
		AllowInterruptions: allowInterruptions,
		AudioURL:           s.prepareAudio(ctx, id, text),
	}

	ch := make(chan Event, 1)
	s.pendingMu.Lock()
	s.pending[id] = ch
	s.pendingMu.Unlock()

	if err := s.writeJSON(cmd); err != nil {
		s.unregister(id)
		s.finish()
		return fmt.Errorf("failed to send speak command: %w", err)
	}

	select {
	case evt, ok := <-ch:
		if !ok {
			return ErrSessionClosed
		}
		if evt.Type == EventSpeechInterrupted {
			logrus.Debug(fmt.Sprintf("Utterance %s interrupted in room %s", id, s.room))
		}
		return nil
	case <-ctx.Done():
		s.unregister(id)
		return ctx.Err()
	}
}

// prepareAudio synthesizes the line and uploads it, returning the
// audio URL. Any failure falls back to text-only speech.
func (s *roomSession) prepareAudio(ctx context.Context, id string, text string) string {
	if s.synth == nil || s.store == nil {
		return ""
	}

	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		logrus.Warn(fmt.Sprintf("Speech synthesis failed, sending text only: %v", err))
		return ""
	}

	key := fmt.Sprintf("tts/%s/%s.mp3", s.room, id)
	location, err := s.store.UploadBytes(key, audio, "audio/mpeg")
	if err != nil {
		logrus.Warn(fmt.Sprintf("Audio upload failed, sending text only: %v", err))
		return ""
	}

	return location
}

func (s *roomSession) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(s.writeTimeout),
	)
	s.writeMu.Unlock()

	s.finish()
	return nil
}

func (s *roomSession) writeJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}
	return s.conn.SetWriteDeadline(time.Time{})
}

// readPump is the single reader. User utterances go to the events
// channel, speech completions resolve their pending Say.
func (s *roomSession) readPump() {
	defer s.finish()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			logrus.Debug(fmt.Sprintf("Room %s read loop ended: %v", s.room, err))
			return
		}

		var evt Event
		if err := json.Unmarshal(message, &evt); err != nil {
			logrus.Warn(fmt.Sprintf("Dropping undecodable event in room %s: %v", s.room, err))
			continue
		}

		switch evt.Type {
		case EventUserUtterance:
			s.emit(evt)
		case EventSpeechFinished, EventSpeechInterrupted:
			s.resolve(evt)
		case EventRoomClosed:
			logrus.Info(fmt.Sprintf("Room %s closed by bridge", s.room))
			return
		default:
			logrus.Debug(fmt.Sprintf("Ignoring event type %s in room %s", evt.Type, s.room))
		}
	}
}

func (s *roomSession) keepAlive() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(s.writeTimeout))
			s.writeMu.Unlock()
			if err != nil {
				logrus.Warn(fmt.Sprintf("Ping failed in room %s: %v", s.room, err))
				s.finish()
				return
			}
		}
	}
}

// emit hands an utterance to the consumer without ever blocking the
// read loop.
func (s *roomSession) emit(evt Event) {
	select {
	case s.events <- evt:
	default:
		logrus.Warn(fmt.Sprintf("Dropping utterance in room %s, consumer is behind", s.room))
	}
}

func (s *roomSession) resolve(evt Event) {
	s.pendingMu.Lock()
	ch, ok := s.pending[evt.UtteranceID]
	if ok {
		delete(s.pending, evt.UtteranceID)
	}
	s.pendingMu.Unlock()

	if ok {
		ch <- evt
	}
}

func (s *roomSession) unregister(id string) {
	s.pendingMu.Lock()
	delete(s.pending, id)
	s.pendingMu.Unlock()
}

// finish tears the session down exactly once. Closing the events
// channel is how consumers learn the room ended.
func (s *roomSession) finish() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()

		s.pendingMu.Lock()
		for id, ch := range s.pending {
			close(ch)
			delete(s.pending, id)
		}
		s.pendingMu.Unlock()

		close(s.events)
	})
}

func getAgentEndpoint() string {
	endpoint := os.Getenv("LIVEKIT_AGENT_WS_URL")
	if endpoint == "" {
		endpoint = "ws://localhost:7880/agent/ws"
	}
	return endpoint
}
