// Package pipeline reduces probed candidates into the valid, base and
// qualified tiers and arranges them into playlist groups.
package pipeline

import (
	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/source"
)

// Source is a candidate together with its probe result and classification.
// It is an immutable value object.
type Source struct {
	candidate source.Candidate
	result    probe.Result
	class     classify.Result
}

// NewSource joins a candidate with what was learned about it.
func NewSource(c source.Candidate, r probe.Result, class classify.Result) Source {
	return Source{candidate: c, result: r, class: class}
}

func (s Source) Candidate() source.Candidate     { return s.candidate }
func (s Source) Probe() probe.Result             { return s.result }
func (s Source) Classification() classify.Result { return s.class }
func (s Source) Name() string                    { return s.candidate.Name() }
func (s Source) URL() string                     { return s.candidate.URL() }
func (s Source) Category() string                { return s.class.Category }
func (s Source) MediaType() probe.MediaType      { return s.result.MediaType() }
func (s Source) Resolution() string              { return s.result.Resolution() }
func (s Source) Succeeded() bool                 { return s.result.Succeeded() }
