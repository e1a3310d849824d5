package m3u

import (
	"bufio"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultName is used for #EXTINF lines without a title.
const DefaultName = "Unknown Channel"

var (
	titleRE = regexp.MustCompile(`,([^,]+)$`)
	logoRE  = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	groupRE = regexp.MustCompile(`group-title="([^"]*)"`)
)

// Entry is a playlist line resolved to a stream.
type Entry struct {
	Name      string
	URL       string
	Logo      string
	Group     string
	UserAgent string
}

// Decode parses M3U and plain-text playlists. Bare URL lines are named
// bareName. "name,url" lines take their group from the preceding "# group"
// or "group,#genre#" header. When a line cannot be read, the entries
// before it are returned together with the error.
func Decode(content, bareName string) ([]Entry, error) {
	var (
		entries []Entry
		extinf  string
		header  string
		lineNo  int
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case line == "" || strings.HasPrefix(line, "#EXTM3U"):
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			extinf = line
			continue
		case strings.HasPrefix(line, "#EXTGRP:"):
			header = strings.TrimSpace(strings.TrimPrefix(line, "#EXTGRP:"))
			continue
		case strings.HasPrefix(line, "# "):
			header = strings.TrimSpace(line[2:])
			continue
		case strings.HasPrefix(line, "#"):
			continue
		case strings.HasSuffix(line, ",#genre#"):
			header = strings.TrimSuffix(line, ",#genre#")
			continue
		}

		if extinf != "" {
			e := Entry{
				Name:  extractTitle(extinf),
				Logo:  firstSubmatch(logoRE, extinf),
				Group: firstSubmatch(groupRE, extinf),
			}
			e.URL, e.UserAgent = splitUserAgent(line)
			if e.Group == "" {
				e.Group = header
			}
			entries = append(entries, e)
			extinf = ""
			continue
		}

		if IsStreamURL(line) {
			e := Entry{Name: bareName}
			e.URL, e.UserAgent = splitUserAgent(line)
			entries = append(entries, e)
			continue
		}

		if name, rawURL, ok := strings.Cut(line, ","); ok && IsStreamURL(rawURL) {
			e := Entry{Name: strings.TrimSpace(name), Group: header}
			e.URL, e.UserAgent = splitUserAgent(rawURL)
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return entries, nil
}

// IsStreamURL reports whether raw, without any user agent suffix, has a
// scheme and a host.
func IsStreamURL(raw string) bool {
	rawURL, _ := splitUserAgent(raw)
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// splitUserAgent separates a "url|User-Agent=x" or "url#User-Agent=x" suffix.
func splitUserAgent(line string) (string, string) {
	for _, sep := range []string{"|", "#User-Agent="} {
		rawURL, rest, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}
		if sep == "|" {
			if !strings.Contains(rest, "User-Agent=") {
				return strings.TrimSpace(rawURL), ""
			}
			rest = strings.Replace(rest, "User-Agent=", "", 1)
		}
		return strings.TrimSpace(rawURL), strings.TrimSpace(rest)
	}
	return line, ""
}

func extractTitle(extinf string) string {
	if m := titleRE.FindStringSubmatch(extinf); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return DefaultName
}

func firstSubmatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
