package probe

import "errors"

var (
	ErrEmptyURL         = errors.New("probe url cannot be empty")
	ErrInvalidTimestamp = errors.New("probe timestamp must not be zero")
	ErrInvalidStatus    = errors.New("probe status is not a failure status")
	ErrNoProbeData      = errors.New("no probe data available")

	// Returned by stream inspectors.
	ErrTimeout       = errors.New("stream inspection timed out")
	ErrInspectFailed = errors.New("stream inspection failed")
	ErrNoStreams     = errors.New("stream has no decodable tracks")
)
