package probe

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{
			name: "volatile timestamp dropped",
			a:    "http://example.com/live.m3u8?t=1",
			b:    "http://example.com/live.m3u8?t=2",
			same: true,
		},
		{
			name: "all volatile parameters dropped",
			a:    "http://example.com/a?token=x&nonce=1&random=9&r=3&time=5&timestamp=7",
			b:    "http://example.com/a",
			same: true,
		},
		{
			name: "fragment dropped",
			a:    "http://example.com/a#frag",
			b:    "http://example.com/a",
			same: true,
		},
		{
			name: "stable parameters preserved",
			a:    "http://example.com/a?id=1",
			b:    "http://example.com/a?id=2",
			same: false,
		},
		{
			name: "parameter order irrelevant",
			a:    "http://example.com/a?x=1&y=2",
			b:    "http://example.com/a?y=2&x=1",
			same: true,
		},
		{
			name: "different hosts",
			a:    "http://one.example.com/a",
			b:    "http://two.example.com/a",
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := NormalizeURL(tt.a), NormalizeURL(tt.b)
			if (ka == kb) != tt.same {
				t.Errorf("NormalizeURL(%q) = %q, NormalizeURL(%q) = %q, same = %v, want %v",
					tt.a, ka, tt.b, kb, ka == kb, tt.same)
			}
		})
	}
}

func TestNormalizeURL_Unparseable(t *testing.T) {
	raw := "http://[::1"
	if got := NormalizeURL(raw); got != raw {
		t.Errorf("NormalizeURL(%q) = %q, want input unchanged", raw, got)
	}
}
