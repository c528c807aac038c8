package wire

import "fmt"

// ErrorCode is the closed set of canonical ERROR codes (spec §4.1).
type ErrorCode string

const (
	ErrBadRequest           ErrorCode = "BAD_REQUEST"
	ErrUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrForbidden            ErrorCode = "FORBIDDEN"
	ErrRoomNotFound         ErrorCode = "ROOM_NOT_FOUND"
	ErrRoomFull             ErrorCode = "ROOM_FULL"
	ErrUsernameTaken        ErrorCode = "USERNAME_TAKEN"
	ErrMatchAlreadyStarted  ErrorCode = "MATCH_ALREADY_STARTED"
	ErrMatchNotStarted      ErrorCode = "MATCH_NOT_STARTED"
	ErrPlayerEliminated     ErrorCode = "PLAYER_ELIMINATED"
	ErrInsufficientScore    ErrorCode = "INSUFFICIENT_SCORE"
	ErrItemOnCooldown       ErrorCode = "ITEM_ON_COOLDOWN"
	ErrRateLimited          ErrorCode = "RATE_LIMITED"
	ErrPayloadTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrJudgeUnavailable     ErrorCode = "JUDGE_UNAVAILABLE"
	ErrInternal             ErrorCode = "INTERNAL_ERROR"
)

// Error is the payload of an ERROR event (spec §4.1, §7).
type Error struct {
	Code         ErrorCode `json:"code"`
	Message      string    `json:"message"`
	RetryAfterMs *int64    `json:"retryAfterMs,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a plain canonical error.
func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// NewRateLimited builds a RATE_LIMITED error carrying retryAfterMs.
func NewRateLimited(retryAfterMs int64) *Error {
	return &Error{Code: ErrRateLimited, Message: "rate limited", RetryAfterMs: &retryAfterMs}
}

// NewJudgeUnavailable builds a JUDGE_UNAVAILABLE error, optionally carrying
// a retry hint (spec §4.8: "fails with JUDGE_UNAVAILABLE on transport
// failures, optionally carrying retryAfterMs").
func NewJudgeUnavailable(msg string, retryAfterMs *int64) *Error {
	return &Error{Code: ErrJudgeUnavailable, Message: msg, RetryAfterMs: retryAfterMs}
}
