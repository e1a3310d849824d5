package m3u

import (
	"fmt"
	"io"
)

type Channel struct {
	Title    string
	URI      string
	Duration float64
	Attrs    Attrs
}

func (pi *Channel) encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#EXTINF:%0.0f", pi.Duration); err != nil {
		return err
	}

	if err := pi.Attrs.encode(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, ",%s\n%s\n", pi.Title, pi.URI); err != nil {
		return err
	}

	return nil
}
