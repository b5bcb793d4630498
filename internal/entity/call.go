package entity

import "time"

type CallStatus string

const (
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusDeclined   CallStatus = "declined"
	CallStatusEnded      CallStatus = "ended"
)

func (s CallStatus) String() string {
	return string(s)
}

// CallRecord is the durable row kept per survey call.
type CallRecord struct {
	ID             string     `json:"id"`
	RoomName       string     `json:"room_name"`
	CustomerPhone  string     `json:"customer_phone,omitempty"`
	Status         CallStatus `json:"status"`
	Language       string     `json:"language"`
	TranscriptPath string     `json:"transcript_path,omitempty"`
	ResultPath     string     `json:"result_path,omitempty"`
	ResultURL      string     `json:"result_url,omitempty"`
	Summary        string     `json:"summary,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

// CallSnapshot is the live view of a running call, kept in Redis for
// the monitor endpoints.
type CallSnapshot struct {
	CallID        string     `json:"call_id"`
	Status        CallStatus `json:"status"`
	QuestionIndex int        `json:"question_index"`
	Transcript    []string   `json:"transcript"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type OperatorData struct {
	ID       string
	Username string
	Role     string
}
