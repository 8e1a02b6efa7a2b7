package callops

import (
	"math"
	"math/rand"
)

// MeasurementSource supplies the call-duration figures a real telephony
// integration would measure. The default implementation is randomized; tests
// inject a deterministic stub.
type MeasurementSource interface {
	// CompletedDuration returns the minutes to record on a call that
	// transitions into completed without a duration, in [22, 34).
	CompletedDuration() int
	// HandleTime returns the average-handle-time figure in [18, 30].
	HandleTime() int
}

type randomMeasurements struct {
	rng *rand.Rand
}

func (r randomMeasurements) CompletedDuration() int {
	return 22 + r.rng.Intn(12)
}

func (r randomMeasurements) HandleTime() int {
	return int(math.Round(18 + r.rng.Float64()*12))
}

// refreshMetricsLocked recomputes the derived snapshot from the current
// {calls, customers}. AvgHandleTime goes through the measurement source and
// is the one non-deterministic figure; everything else is a pure function of
// the collections.
func (s *Store) refreshMetricsLocked() {
	var completed, scheduled, positiveCompleted int
	for _, c := range s.state.Calls {
		switch c.Status {
		case CallStatusCompleted:
			completed++
			if c.Sentiment == SentimentPositive {
				positiveCompleted++
			}
		case CallStatusScheduled:
			scheduled++
		}
	}

	var pipeline float64
	for _, c := range s.state.Customers {
		pipeline += c.AccountValue
	}

	m := Metrics{
		MeetingsBooked: scheduled + completed,
		PipelineValue:  pipeline,
	}
	if completed > 0 {
		m.ConversionRate = clampRate(float64(completed) / float64(max(1, scheduled+completed)))
		m.WinRate = clampRate(float64(positiveCompleted) / float64(completed))
		m.AvgHandleTime = s.measure.HandleTime()
	}
	s.state.Metrics = m
}

func clampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
