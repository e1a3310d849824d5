package probe

import (
	"strconv"
	"strings"
)

var radioKeywords = []string{
	"radio", "广播", "电台", "fm", "am",
	"交通广播", "音乐广播", "新闻广播", "经济广播",
	"文艺广播", "都市广播", "农村广播",
}

// DeriveMediaType decides the media type of a stream from its video
// presence, its resolution and the channel name. Streams without video, and
// video streams whose resolution parses to under 100 pixels on either side,
// are radio when the lowercased name carries a radio keyword and audio
// otherwise. An empty or unparsable resolution leaves a video stream as video.
func DeriveMediaType(hasVideo bool, resolution, name string) MediaType {
	if hasVideo && !tinyResolution(resolution) {
		return MediaTypeVideo
	}
	lower := strings.ToLower(name)
	for _, kw := range radioKeywords {
		if strings.Contains(lower, kw) {
			return MediaTypeRadio
		}
	}
	return MediaTypeAudio
}

func tinyResolution(resolution string) bool {
	w, h, ok := strings.Cut(resolution, "x")
	if !ok {
		return false
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return false
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return false
	}
	return width < 100 || height < 100
}
