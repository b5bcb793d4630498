package callHandler

import (
	"ProjectRiya/internal/api/call"
	"ProjectRiya/internal/entity"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// MonitorCall streams the live transcript of one call over a
// websocket. The client gets the current snapshot first, then every
// line as it is spoken.
func (h *CallHandler) MonitorCall(c *websocket.Conn) {
	callID := c.Params("call_id")

	h.log.Infof("Monitor connected for call %s", callID)
	defer h.log.Infof("Monitor disconnected for call %s", callID)

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines, closeSub := h.redis.SubscribeTranscript(ctx, callID)
	defer func() {
		if err := closeSub(); err != nil {
			h.log.Debugf("Error closing transcript subscription: %v", err)
		}
	}()

	if state, err := h.redis.GetCallState(ctx, callID); err == nil && state != "" {
		var snapshot entity.CallSnapshot
		if err := json.Unmarshal([]byte(state), &snapshot); err == nil {
			if err := h.writeMonitorMessage(c, call.MonitorMessage{Type: "snapshot", Snapshot: &snapshot}); err != nil {
				h.log.Errorf("Error sending snapshot: %v", err)
				return
			}
		}
	}

	// the read loop only exists to notice the client going away
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := h.writeMonitorMessage(c, call.MonitorMessage{Type: "transcript_line", Line: line}); err != nil {
				h.log.Debugf("Monitor write failed for call %s: %v", callID, err)
				return
			}
		}
	}
}

func (h *CallHandler) writeMonitorMessage(c *websocket.Conn, msg call.MonitorMessage) error {
	if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	if err := c.WriteJSON(msg); err != nil {
		return err
	}
	return c.SetWriteDeadline(time.Time{})
}
