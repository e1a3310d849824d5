package probe

// Tally summarizes a batch of probe results.
type Tally struct {
	total            int
	successful       int
	byStatus         map[Status]int
	successRatio     float64
	avgResponseTime  float64 // milliseconds
	avgDownloadSpeed float64 // KB/s, over results with a measured speed
}

// NewTally aggregates results. Returns ErrNoProbeData if results is empty.
func NewTally(results []Result) (Tally, error) {
	if len(results) == 0 {
		return Tally{}, ErrNoProbeData
	}

	byStatus := make(map[Status]int)
	successful := 0
	var totalLatency int
	var totalSpeed float64
	speedSamples := 0

	for _, r := range results {
		byStatus[r.Status()]++
		if !r.Succeeded() {
			continue
		}
		successful++
		totalLatency += r.ResponseTimeMs()
		if r.DownloadSpeed() > 0 {
			totalSpeed += r.DownloadSpeed()
			speedSamples++
		}
	}

	t := Tally{
		total:        len(results),
		successful:   successful,
		byStatus:     byStatus,
		successRatio: float64(successful) / float64(len(results)),
	}
	if successful > 0 {
		t.avgResponseTime = float64(totalLatency) / float64(successful)
	}
	if speedSamples > 0 {
		t.avgDownloadSpeed = totalSpeed / float64(speedSamples)
	}
	return t, nil
}

func (t Tally) Total() int                { return t.total }
func (t Tally) Successful() int           { return t.successful }
func (t Tally) Count(s Status) int        { return t.byStatus[s] }
func (t Tally) SuccessRatio() float64     { return t.successRatio }
func (t Tally) AvgResponseTime() float64  { return t.avgResponseTime }
func (t Tally) AvgDownloadSpeed() float64 { return t.avgDownloadSpeed }
