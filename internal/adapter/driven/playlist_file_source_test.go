package driven

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/alorle/iptv-curator/internal/source"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPlaylistFileSource_Load(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a.m3u"), []byte("#EXTM3U\n"+
		"#EXTINF:-1 tvg-logo=\"http://logo\" group-title=\"News\",CCTV-13\n"+
		"http://example.com/13\n"+
		"#EXTINF:-1,Broken\n"+
		"not-a-url\n"))
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), []byte("Sports,#genre#\nNBA,http://example.com/nba\n"))
	writeFile(t, filepath.Join(dir, "notes.md"), []byte("http://example.com/ignored\n"))

	gbk, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte("湖南卫视,http://example.com/hunan|User-Agent=Lavf\n"))
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	writeFile(t, filepath.Join(dir, "c.txt"), gbk)

	src := NewPlaylistFileSource(
		[]string{dir, filepath.Join(dir, "missing")},
		map[string]string{"b.txt": "Kodi"},
		newTestLogger(),
	)

	got, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3: %+v", len(got), got)
	}

	byName := make(map[string]source.Candidate)
	for _, c := range got {
		byName[c.Name()] = c
		if c.Origin() != source.OriginLocal {
			t.Errorf("%s origin = %q, want local", c.Name(), c.Origin())
		}
	}

	cctv := byName["CCTV-13"]
	if cctv.Logo() != "http://logo" || cctv.Group() != "News" || cctv.Path() != filepath.Join(dir, "a.m3u") {
		t.Errorf("CCTV-13 attributes wrong: logo=%q group=%q path=%q", cctv.Logo(), cctv.Group(), cctv.Path())
	}
	if nba := byName["NBA"]; nba.UserAgent() != "Kodi" || nba.Group() != "Sports" {
		t.Errorf("NBA ua=%q group=%q, want Kodi/Sports", nba.UserAgent(), nba.Group())
	}
	hunan, ok := byName["湖南卫视"]
	if !ok {
		t.Fatalf("GB18030 file not decoded: %+v", byName)
	}
	if hunan.URL() != "http://example.com/hunan" || hunan.UserAgent() != "Lavf" {
		t.Errorf("hunan url=%q ua=%q", hunan.URL(), hunan.UserAgent())
	}
}

func TestParsePlaylist_KeepsEntriesBeforeUnreadableLine(t *testing.T) {
	data := []byte("CCTV-1,http://example.com/1\n" +
		"Huge,http://example.com/" + strings.Repeat("x", 2*1024*1024) + "\n" +
		"CCTV-2,http://example.com/2\n")

	got := parsePlaylist(data, "", source.Attributes{Origin: source.OriginLocal, Path: "big.txt"}, newTestLogger())
	if len(got) != 1 || got[0].Name() != "CCTV-1" {
		t.Errorf("parsePlaylist() = %+v, want only CCTV-1", got)
	}
}

func TestPlaylistFileSource_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("A,http://example.com/a\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewPlaylistFileSource([]string{dir}, nil, newTestLogger())
	if _, err := src.Load(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDecodePlaylistText(t *testing.T) {
	text, err := decodePlaylistText([]byte("plain ascii"))
	if err != nil || text != "plain ascii" {
		t.Errorf("decodePlaylistText(ascii) = %q, %v", text, err)
	}

	encoded, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte("中央电视台"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text, err = decodePlaylistText(encoded)
	if err != nil || text != "中央电视台" {
		t.Errorf("decodePlaylistText(gb18030) = %q, %v", text, err)
	}
}
