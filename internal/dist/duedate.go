package dist

import (
	"math/rand"
	"time"

	"workseed/internal/corpus"
)

// DueDateModel decides whether a task gets a due date and where it lands:
// lognormal expected effort, deliberately aggressive at the benchmark
// overdue rate, with a floor of one day after creation and an optional
// parent ceiling.
type DueDateModel struct {
	rng         *rand.Rand
	b           corpus.Benchmarks
	maxAttempts int
}

var duePresence = map[string]float64{"high": 0.95, "medium": 0.80, "low": 0.60}

// HasDueDate draws due-date presence by priority.
func (m *DueDateModel) HasDueDate(priority string) bool {
	p, ok := duePresence[priority]
	if !ok {
		p = duePresence["medium"]
	}
	return m.rng.Float64() < p
}

// ExpectedDurationDays is the raw effort estimate behind a deadline.
func (m *DueDateModel) ExpectedDurationDays() float64 {
	return LogNormal(m.rng, 1.2, 0.6) * (m.b.TimeMetrics.AvgTaskDurationDays / 4)
}

// DueDate places a deadline after created. At the overdue rate the estimate
// is cut aggressively (×0.4–0.7) so part of the population is set up to
// slip; otherwise it gets normal padding (×0.9–1.3). The result is at least
// one day out. With a parent ceiling the draw is retried up to the bound,
// then clamped to the parent's due date.
func (m *DueDateModel) DueDate(created time.Time, parentDue *time.Time) time.Time {
	draw := func() time.Time {
		days := m.ExpectedDurationDays()
		if m.rng.Float64() < m.b.TaskCompletion.OverdueRate {
			days *= FloatBetween(m.rng, 0.4, 0.7)
		} else {
			days *= FloatBetween(m.rng, 0.9, 1.3)
		}
		due := created.Add(time.Duration(days * 24 * float64(time.Hour)))
		if floor := created.Add(24 * time.Hour); due.Before(floor) {
			due = floor
		}
		return due
	}

	due := draw()
	if parentDue == nil {
		return due
	}
	if !due.After(*parentDue) {
		return due
	}
	ok := Attempt(m.maxAttempts, func() bool {
		due = draw()
		return !due.After(*parentDue)
	})
	if !ok {
		due = *parentDue
	}
	return due
}
