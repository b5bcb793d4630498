package call

import "ProjectRiya/pkg/response"

var (
	ErrCallNotFound       = response.NewError(404, "call not found")
	ErrRoomBusy           = response.NewError(409, "room already has an active call")
	ErrCallAlreadyEnded   = response.NewError(409, "call already ended")
	ErrCallStillRunning   = response.NewError(409, "call is still running")
	ErrResultNotReady     = response.NewError(404, "call result not ready")
	ErrInvalidPhoneNumber = response.NewError(400, "invalid phone number")
	ErrInvalidAnswerType  = response.NewError(400, "invalid answer type")
	ErrRoomJoinFailed     = response.NewError(502, "failed to join room")
	ErrCallStartFailed    = response.NewError(500, "failed to start call")
)
