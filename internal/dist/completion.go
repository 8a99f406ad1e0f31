package dist

import (
	"math/rand"

	"workseed/internal/corpus"
)

// Outcome is the lifecycle a task is assigned at creation time. The
// generator derives all status fields (completed, completed_at,
// modified_at) from it.
type Outcome int

const (
	// OutcomeCompleted: finished and stayed finished.
	OutcomeCompleted Outcome = iota
	// OutcomeReopened: was completed, then reopened; ends incomplete with a
	// later modification.
	OutcomeReopened
	// OutcomeIncomplete: still open, possibly overdue.
	OutcomeIncomplete
	// OutcomeScopeChanged: open because its scope moved under it.
	OutcomeScopeChanged
)

// CompletionModel decides priorities and lifecycle outcomes from the
// priority-conditioned benchmark rates.
type CompletionModel struct {
	rng *rand.Rand
	b   corpus.Benchmarks
}

var priorityWeights = map[string]float64{"high": 0.20, "medium": 0.60, "low": 0.20}

// Priority draws the task priority mix.
func (m *CompletionModel) Priority() string {
	return WeightedCategory(m.rng, priorityWeights)
}

// Overdue draws whether an incomplete task has blown past its due date.
func (m *CompletionModel) Overdue() bool {
	return m.rng.Float64() < m.b.TaskCompletion.OverdueRate
}

// Outcome resolves a task's lifecycle. The base rate is the priority's
// benchmark completion rate, adjusted for task age (fresh tasks complete
// half as often, stale ones a third more, capped at 0.95), overdue status
// and an overloaded assignee.
func (m *CompletionModel) Outcome(priority string, ageDays float64, overdue, overloaded bool) Outcome {
	p, ok := m.b.TaskCompletion.ByPriority[priority]
	if !ok {
		p = m.b.TaskCompletion.OverallRate
	}
	switch {
	case ageDays < 7:
		p *= 0.5
	case ageDays > 60:
		p *= 1.3
		if p > 0.95 {
			p = 0.95
		}
	}
	if overdue {
		p *= 0.6
	}
	if overloaded {
		p *= 0.7
	}

	if m.rng.Float64() < p {
		if m.rng.Float64() < m.b.ProjectSuccess.ScopeChangeRate*0.4 {
			return OutcomeReopened
		}
		return OutcomeCompleted
	}
	if m.rng.Float64() < m.b.ProjectSuccess.ScopeChangeRate {
		return OutcomeScopeChanged
	}
	return OutcomeIncomplete
}
