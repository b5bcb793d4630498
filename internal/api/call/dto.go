package call

import (
	"time"

	"ProjectRiya/internal/entity"
)

type StartCallRequest struct {
	RoomName      string `json:"room_name" validate:"omitempty,min=3,max=64"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,min=7,max=20"`
}

type StartCallResponse struct {
	CallID    string    `json:"call_id"`
	RoomName  string    `json:"room_name"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CallResponse struct {
	Call entity.CallRecord    `json:"call"`
	Live *entity.CallSnapshot `json:"live,omitempty"`
}

type MonitorMessage struct {
	Type     string               `json:"type"`
	Line     string               `json:"line,omitempty"`
	Snapshot *entity.CallSnapshot `json:"snapshot,omitempty"`
}

type ExtractionTestRequest struct {
	Text       string `json:"text" validate:"required,min=1,max=500"`
	AnswerType string `json:"answer_type" validate:"required,oneof=rating_1_5 yes_no free_text consent"`
}

type ExtractionTestResponse struct {
	Input      string      `json:"input"`
	AnswerType string      `json:"answer_type"`
	Value      interface{} `json:"value"`
}
