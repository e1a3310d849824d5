package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	port "github.com/alorle/iptv-curator/internal/port/driven"
	"github.com/alorle/iptv-curator/internal/probe"
)

// ErrInspectorUnavailable is returned when the ffprobe binary cannot be run.
var ErrInspectorUnavailable = errors.New("ffprobe is not available")

const (
	defaultFFprobeBinary = "ffprobe"
	versionCheckTimeout  = 5 * time.Second
	// Extra time the process gets on top of ffprobe's own I/O timeout.
	processSlack = 2 * time.Second
)

// commandRunner executes binary with args and returns its stdout.
type commandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output()
}

// FFprobeInspector inspects streams by running ffprobe and decoding its
// JSON report. It implements the driven.StreamInspector port.
type FFprobeInspector struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewFFprobeInspector creates an inspector for the given binary.
// An empty binary means "ffprobe" from PATH.
func NewFFprobeInspector(binary string, logger *slog.Logger) *FFprobeInspector {
	if binary == "" {
		binary = defaultFFprobeBinary
	}
	return &FFprobeInspector{binary: binary, logger: logger, run: execRunner}
}

// CheckAvailable runs "ffprobe -version" once.
func (i *FFprobeInspector) CheckAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
	defer cancel()

	out, err := i.run(ctx, i.binary, "-version")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInspectorUnavailable, err)
	}
	if line, _, _ := strings.Cut(string(out), "\n"); line != "" {
		i.logger.Info("ffprobe available", "version", line)
	}
	return nil
}

// Inspect runs ffprobe against req.URL.
func (i *FFprobeInspector) Inspect(ctx context.Context, req port.InspectRequest) (probe.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, req.Timeout+processSlack)
	defer cancel()

	out, err := i.run(ctx, i.binary, ffprobeArgs(req)...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return probe.Metadata{}, probe.ErrTimeout
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return probe.Metadata{}, fmt.Errorf("%w: %s", probe.ErrInspectFailed, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return probe.Metadata{}, fmt.Errorf("%w: %v", probe.ErrInspectFailed, err)
	}

	return parseFFprobeOutput(out)
}

func ffprobeArgs(req port.InspectRequest) []string {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-timeout", strconv.FormatInt(req.Timeout.Microseconds(), 10),
	}
	if req.UserAgent != "" {
		args = append(args, "-headers", "User-Agent: "+req.UserAgent+"\r\n")
	}
	return append(args, req.URL)
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType    string          `json:"codec_type"`
	CodecName    string          `json:"codec_name"`
	Profile      string          `json:"profile"`
	Level        json.RawMessage `json:"level"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	PixFmt       string          `json:"pix_fmt"`
	AvgFrameRate string          `json:"avg_frame_rate"`
	SampleRate   string          `json:"sample_rate"`
	Channels     int             `json:"channels"`
	BitRate      string          `json:"bit_rate"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

// parseFFprobeOutput maps the ffprobe JSON report onto probe.Metadata.
// Malformed numeric fields are left at zero. The first video and the first
// audio stream win.
func parseFFprobeOutput(data []byte) (probe.Metadata, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return probe.Metadata{}, fmt.Errorf("%w: decoding ffprobe output: %v", probe.ErrInspectFailed, err)
	}
	if len(out.Streams) == 0 {
		return probe.Metadata{}, probe.ErrNoStreams
	}

	meta := probe.Metadata{
		FormatName:  out.Format.FormatName,
		Duration:    parseFloat(out.Format.Duration),
		BitrateKbps: parseInt(out.Format.BitRate) / 1000,
	}

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if meta.HasVideo {
				continue
			}
			meta.HasVideo = true
			meta.Width = s.Width
			meta.Height = s.Height
			meta.VideoCodec = s.CodecName
			meta.VideoProfile = s.Profile
			meta.VideoLevel = parseInt(strings.Trim(string(s.Level), `"`))
			meta.PixelFormat = s.PixFmt
			meta.FrameRate = parseFrameRate(s.AvgFrameRate)
		case "audio":
			if meta.HasAudio {
				continue
			}
			meta.HasAudio = true
			meta.AudioCodec = s.CodecName
			meta.SampleRate = parseInt(s.SampleRate)
			meta.Channels = s.Channels
			meta.AudioBitrateKbps = parseInt(s.BitRate) / 1000
		}
	}

	return meta, nil
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseFrameRate turns "num/den" into frames per second rounded to two decimals.
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0
	}
	n, d := parseInt(num), parseInt(den)
	if d <= 0 {
		return 0
	}
	return math.Round(float64(n)/float64(d)*100) / 100
}
