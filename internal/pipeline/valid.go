package pipeline

// Valid keeps the sources whose probe succeeded, in input order.
func Valid(sources []Source) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Succeeded() {
			out = append(out, s)
		}
	}
	return out
}
