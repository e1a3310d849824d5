package probe

import "strconv"

// Metadata is what a stream inspector learned about a stream.
type Metadata struct {
	HasVideo bool `json:"has_video"`
	HasAudio bool `json:"has_audio"`

	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	VideoCodec   string  `json:"video_codec,omitempty"`
	VideoProfile string  `json:"video_profile,omitempty"`
	VideoLevel   int     `json:"video_level,omitempty"`
	PixelFormat  string  `json:"pixel_format,omitempty"`
	FrameRate    float64 `json:"frame_rate,omitempty"`

	AudioCodec       string `json:"audio_codec,omitempty"`
	SampleRate       int    `json:"sample_rate,omitempty"`
	Channels         int    `json:"channels,omitempty"`
	AudioBitrateKbps int    `json:"audio_bitrate,omitempty"`

	FormatName string  `json:"format_name,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	// BitrateKbps is the container bitrate, 0 when unknown.
	BitrateKbps int `json:"bitrate,omitempty"`
}

// Resolution renders the video dimensions as "WxH", or "" when unknown.
func (m Metadata) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	return strconv.Itoa(m.Width) + "x" + strconv.Itoa(m.Height)
}

// IsHD reports a video height of at least 720 lines.
func (m Metadata) IsHD() bool { return m.Height >= 720 }

// Is4K reports a video height of at least 2160 lines.
func (m Metadata) Is4K() bool { return m.Height >= 2160 }
