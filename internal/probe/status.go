package probe

// Status is the outcome of probing a single candidate.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// IsFailure reports whether s is one of the non-success statuses.
func (s Status) IsFailure() bool {
	switch s {
	case StatusFailed, StatusTimeout, StatusError:
		return true
	}
	return false
}

// MediaType describes what kind of content a stream carries.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
	MediaTypeRadio MediaType = "radio"
)

// IsAudible reports whether m is an audio-only type.
func (m MediaType) IsAudible() bool {
	return m == MediaTypeAudio || m == MediaTypeRadio
}
