package m3u

import (
	"fmt"
	"io"
	"strings"
)

type group struct {
	name  string
	items []*Channel
}

type encoder struct {
	epgUrls []string
	groups  []*group
}

func NewEncoder(guideUrls []string) *encoder {
	return &encoder{epgUrls: guideUrls}
}

// AddGroup starts a new #EXTGRP section. Channels added afterwards belong to it.
func (p *encoder) AddGroup(name string) {
	p.groups = append(p.groups, &group{name: name})
}

// AddChannel appends item to the current group, opening an unnamed one if needed.
func (p *encoder) AddChannel(item *Channel) {
	if len(p.groups) == 0 {
		p.groups = append(p.groups, &group{})
	}
	g := p.groups[len(p.groups)-1]
	g.items = append(g.items, item)
}

func (p *encoder) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#EXTM3U"); err != nil {
		return err
	}

	if len(p.epgUrls) > 0 {
		if _, err := fmt.Fprintf(w, " x-tvg-url=\"%s\"", strings.Join(p.epgUrls, ",")); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	for _, g := range p.groups {
		if g.name != "" {
			if _, err := fmt.Fprintf(w, "#EXTGRP:%s\n", g.name); err != nil {
				return err
			}
		}
		for _, item := range g.items {
			if err := item.encode(w); err != nil {
				return err
			}
		}
	}

	return nil
}
