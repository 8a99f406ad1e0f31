package dist

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"workseed/internal/corpus"
)

// TimeModel samples every timestamp-shaped quantity: sprint lengths, project
// and task durations, creation offsets inside a window. Draws that would
// escape the caller's window are retried up to the bound and then clamped to
// the remaining span.
type TimeModel struct {
	rng         *rand.Rand
	b           corpus.Benchmarks
	maxAttempts int
}

// SprintLengthDays draws from the benchmark sprint mixture ("7_days": 0.15,
// "14_days": 0.60, ...). A key that fails to parse falls back to the flat
// sprint_duration figure.
func (m *TimeModel) SprintLengthDays() int {
	key := WeightedCategory(m.rng, m.b.SprintDynamics.SprintLengthDistribution)
	days, err := strconv.Atoi(strings.TrimSuffix(key, "_days"))
	if err != nil || days <= 0 {
		return m.b.TimeMetrics.SprintDuration
	}
	return days
}

// ProjectDurationDays samples within a template range, pulled toward the
// benchmark median when it falls inside the range.
func (m *TimeModel) ProjectDurationDays(lo, hi int) int {
	mode := float64(m.b.TimeMetrics.ProjectDurationMedian)
	if mode < float64(lo) {
		mode = float64(lo)
	}
	if mode > float64(hi) {
		mode = float64(hi)
	}
	return int(Triangular(m.rng, float64(lo), float64(hi), mode))
}

// TaskDurationDays samples the created-to-completed span, triangular over
// the benchmark range with the benchmark average as mode.
func (m *TimeModel) TaskDurationDays() float64 {
	r := m.b.TimeMetrics.AvgTaskDurationDaysRange
	return Triangular(m.rng, float64(r[0]), float64(r[1]), m.b.TimeMetrics.AvgTaskDurationDays)
}

// CreatedWithin places a creation timestamp inside [start, end), skewed
// toward the earlier part of the span so backlogs look lived-in.
func (m *TimeModel) CreatedWithin(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(Beta(m.rng, 2, 3) * float64(span)))
}

// HireDate skews harder toward the window start than CreatedWithin: most of
// the staff predates the observation window.
func (m *TimeModel) HireDate(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(Beta(m.rng, 2, 5) * float64(span)))
}

// CompletionAt places a completion after created and never past limit. The
// duration draw is retried up to the bound, then clamped to the remaining
// span.
func (m *TimeModel) CompletionAt(created, limit time.Time) time.Time {
	remaining := limit.Sub(created)
	if remaining <= time.Hour {
		return limit
	}
	var dur time.Duration
	ok := Attempt(m.maxAttempts, func() bool {
		dur = time.Duration(m.TaskDurationDays() * 24 * float64(time.Hour))
		return dur > 0 && dur <= remaining
	})
	if !ok {
		dur = time.Duration(m.rng.Float64() * float64(remaining))
	}
	return created.Add(dur)
}

// DeadlineSlackDays is exponential slack used when spacing project-level
// milestones.
func (m *TimeModel) DeadlineSlackDays() float64 {
	return Exponential(m.rng, m.b.TimeMetrics.AvgTaskDurationDays/2)
}
