package m3u

import (
	"fmt"
	"io"
)

// Attr is a key="value" pair on an #EXTINF line.
type Attr struct {
	Key   string
	Value string
}

// Attrs keeps attributes in the order they are written.
type Attrs []Attr

// Add appends key with value, skipping empty values.
func (a *Attrs) Add(key, value string) {
	if value == "" {
		return
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (a Attrs) Get(key string) string {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

func (a Attrs) encode(w io.Writer) error {
	for _, attr := range a {
		if _, err := fmt.Fprintf(w, " %s=\"%s\"", attr.Key, attr.Value); err != nil {
			return err
		}
	}
	return nil
}
