package m3u

import (
	"fmt"
	"io"
)

// TextLine is one "name,url" entry of a plain-text playlist.
type TextLine struct {
	Name string
	URL  string
}

// TextGroup is a "# name" section of a plain-text playlist.
type TextGroup struct {
	Name  string
	Lines []TextLine
}

// EncodeText writes groups as "# group" headers followed by "name,url"
// lines, with a blank line after every group.
func EncodeText(w io.Writer, groups []TextGroup) error {
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "# %s\n", g.Name); err != nil {
			return err
		}
		for _, l := range g.Lines {
			if _, err := fmt.Fprintf(w, "%s,%s\n", l.Name, l.URL); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
