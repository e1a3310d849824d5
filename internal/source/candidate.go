package source

import (
	"net/url"
	"strings"
)

// Origin identifies where a candidate was discovered.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginOnline Origin = "online"
)

// Attributes carries the optional playlist metadata of a candidate.
type Attributes struct {
	Logo      string
	Group     string
	Origin    Origin
	UserAgent string
	// Path is the file path or URL of the playlist the entry came from.
	Path string
}

// Candidate is a named stream URL discovered in a playlist.
// It is an immutable value object.
type Candidate struct {
	name      string
	url       string
	logo      string
	group     string
	origin    Origin
	userAgent string
	path      string
}

// NewCandidate creates a Candidate with validation.
func NewCandidate(name, rawURL string, attrs Attributes) (Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Candidate{}, ErrEmptyName
	}
	rawURL = strings.TrimSpace(rawURL)
	if !IsStreamURL(rawURL) {
		return Candidate{}, ErrInvalidURL
	}
	origin := attrs.Origin
	if origin == "" {
		origin = OriginLocal
	}
	return Candidate{
		name:      name,
		url:       rawURL,
		logo:      strings.TrimSpace(attrs.Logo),
		group:     strings.TrimSpace(attrs.Group),
		origin:    origin,
		userAgent: strings.TrimSpace(attrs.UserAgent),
		path:      attrs.Path,
	}, nil
}

// ReconstructCandidate rebuilds a Candidate from persisted state.
// Intended for repository adapters only, it bypasses validation.
func ReconstructCandidate(name, rawURL string, attrs Attributes) Candidate {
	return Candidate{
		name:      name,
		url:       rawURL,
		logo:      attrs.Logo,
		group:     attrs.Group,
		origin:    attrs.Origin,
		userAgent: attrs.UserAgent,
		path:      attrs.Path,
	}
}

// IsStreamURL reports whether raw parses as an absolute URL with a host.
func IsStreamURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func (c Candidate) Name() string      { return c.name }
func (c Candidate) URL() string       { return c.url }
func (c Candidate) Logo() string      { return c.logo }
func (c Candidate) Group() string     { return c.group }
func (c Candidate) Origin() Origin    { return c.origin }
func (c Candidate) UserAgent() string { return c.userAgent }
func (c Candidate) Path() string      { return c.path }

// Attributes returns the optional metadata of c.
func (c Candidate) Attributes() Attributes {
	return Attributes{
		Logo:      c.logo,
		Group:     c.group,
		Origin:    c.origin,
		UserAgent: c.userAgent,
		Path:      c.path,
	}
}

// Key identifies a candidate by its (name, url) pair.
func (c Candidate) Key() string {
	return c.name + "\x00" + c.url
}

// Unique drops repeated (name, url) pairs, keeping the first occurrence.
func Unique(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}
