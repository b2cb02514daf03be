package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeChannelNotFound = "channel_not_found"
	ErrCodeGroupNotFound   = "group_not_found"
	ErrCodeBadRequest      = "bad_request"
	ErrCodeShuttingDown    = "shutting_down"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrHubStopped      = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}
