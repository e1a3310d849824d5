package pipeline

import (
	"math"
	"strconv"
	"strings"
)

const unboundedDimension = 9999

// ParseResolution understands "WxH" and "Np", the latter with a 16:9
// width. ok is false for anything else.
func ParseResolution(s string) (width, height int, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if w, h, found := strings.Cut(s, "x"); found {
		pw, errW := strconv.Atoi(w)
		ph, errH := strconv.Atoi(h)
		if errW != nil || errH != nil {
			return 0, 0, false
		}
		return pw, ph, true
	}
	if lines, found := strings.CutSuffix(s, "p"); found {
		ph, err := strconv.Atoi(lines)
		if err != nil {
			return 0, 0, false
		}
		return int(math.Round(float64(ph) * 16 / 9)), ph, true
	}
	return 0, 0, false
}

// lowerBound parses a resolution for a minimum comparison. Unparseable
// values become 0x0.
func lowerBound(s string) (int, int) {
	w, h, ok := ParseResolution(s)
	if !ok {
		return 0, 0
	}
	return w, h
}

// upperBound parses a resolution for a maximum comparison. Unparseable
// values become 9999x9999, which leaves the bound open.
func upperBound(s string) (int, int) {
	w, h, ok := ParseResolution(s)
	if !ok {
		return unboundedDimension, unboundedDimension
	}
	return w, h
}

// meetsMin reports whether resolution is at least minimum. An empty
// resolution or minimum passes.
func meetsMin(resolution, minimum string) bool {
	if resolution == "" || minimum == "" {
		return true
	}
	w, h := lowerBound(resolution)
	minW, minH := lowerBound(minimum)
	return w >= minW && h >= minH
}

// meetsMax reports whether resolution is at most maximum. An empty
// resolution or maximum passes.
func meetsMax(resolution, maximum string) bool {
	if resolution == "" || maximum == "" {
		return true
	}
	w, h := upperBound(resolution)
	maxW, maxH := upperBound(maximum)
	return w <= maxW && h <= maxH
}
