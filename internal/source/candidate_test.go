package source

import (
	"errors"
	"testing"
)

func TestNewCandidate(t *testing.T) {
	tests := []struct {
		name      string
		chName    string
		url       string
		attrs     Attributes
		wantError error
	}{
		{
			name:   "valid http candidate",
			chName: "CCTV-1",
			url:    "http://example.com/cctv1.m3u8",
			attrs:  Attributes{Group: "央视", Logo: "http://logo/cctv1.png"},
		},
		{
			name:   "valid rtmp candidate",
			chName: "Radio One",
			url:    "rtmp://media.example.com/live/one",
		},
		{
			name:      "empty name",
			chName:    "",
			url:       "http://example.com/a",
			wantError: ErrEmptyName,
		},
		{
			name:      "whitespace-only name",
			chName:    "   ",
			url:       "http://example.com/a",
			wantError: ErrEmptyName,
		},
		{
			name:      "missing scheme",
			chName:    "News",
			url:       "example.com/a",
			wantError: ErrInvalidURL,
		},
		{
			name:      "missing host",
			chName:    "News",
			url:       "file:///tmp/a.ts",
			wantError: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCandidate(tt.chName, tt.url, tt.attrs)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("expected error %v, got %v", tt.wantError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Name() != tt.chName {
				t.Errorf("Name() = %q, want %q", c.Name(), tt.chName)
			}
			if c.URL() != tt.url {
				t.Errorf("URL() = %q, want %q", c.URL(), tt.url)
			}
			if c.Group() != tt.attrs.Group {
				t.Errorf("Group() = %q, want %q", c.Group(), tt.attrs.Group)
			}
			if c.Origin() != OriginLocal {
				t.Errorf("Origin() = %q, want %q", c.Origin(), OriginLocal)
			}
		})
	}
}

func TestNewCandidate_TrimsWhitespace(t *testing.T) {
	c, err := NewCandidate("  CCTV-1 ", " http://example.com/a ", Attributes{UserAgent: " VLC "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "CCTV-1" {
		t.Errorf("Name() = %q, want %q", c.Name(), "CCTV-1")
	}
	if c.URL() != "http://example.com/a" {
		t.Errorf("URL() = %q, want %q", c.URL(), "http://example.com/a")
	}
	if c.UserAgent() != "VLC" {
		t.Errorf("UserAgent() = %q, want %q", c.UserAgent(), "VLC")
	}
}

func TestUnique(t *testing.T) {
	a := ReconstructCandidate("A", "http://h/1", Attributes{})
	b := ReconstructCandidate("A", "http://h/2", Attributes{})
	dup := ReconstructCandidate("A", "http://h/1", Attributes{Group: "other"})

	got := Unique([]Candidate{a, b, dup})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].URL() != "http://h/1" || got[0].Group() != "" {
		t.Errorf("first occurrence not kept: %+v", got[0])
	}
}
