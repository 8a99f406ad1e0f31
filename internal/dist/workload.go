package dist

import (
	"math/rand"

	"workseed/internal/corpus"
)

// WorkloadModel captures how much work a user attracts and whether they
// shed it: weekly created/completed targets scaled by personal capacity,
// an overload test, and the reassignment decision.
type WorkloadModel struct {
	rng *rand.Rand
	b   corpus.Benchmarks
}

// Capacity samples a personal multiplier around 1.0, clamped to [0.5, 2.0].
func (m *WorkloadModel) Capacity() float64 {
	c := 1.0 + m.rng.NormFloat64()*0.2
	if c < 0.5 {
		c = 0.5
	}
	if c > 2.0 {
		c = 2.0
	}
	return c
}

// WeeklyCreated is the number of tasks assigned to a user per week, uniform
// over the benchmark range and scaled by capacity.
func (m *WorkloadModel) WeeklyCreated(capacity float64) int {
	r := m.b.Workload.TasksCreatedPerWeekRange
	n := int(float64(IntBetween(m.rng, r[0], r[1])) * capacity)
	if n < 1 {
		n = 1
	}
	return n
}

// WeeklyCompleted is the throughput target, triangular over the benchmark
// range and scaled by capacity.
func (m *WorkloadModel) WeeklyCompleted(capacity float64) int {
	r := m.b.Workload.TasksCompletedPerWeekRange
	mid := float64(r[0]+r[1]) / 2
	n := int(Triangular(m.rng, float64(r[0]), float64(r[1]), mid) * capacity)
	if n < 1 {
		n = 1
	}
	return n
}

// Overloaded reports whether a user carrying `created` weekly tasks at the
// given capacity has tipped past their tolerance. The threshold itself is
// sampled so the boundary is fuzzy rather than a hard step.
func (m *WorkloadModel) Overloaded(created int, capacity float64) bool {
	if capacity <= 0 {
		return true
	}
	return float64(created)/capacity > FloatBetween(m.rng, 1.0, 1.5)
}

// Reassign decides whether a task changes assignee after creation. Overload
// raises the benchmark rate by half, capped at 0.9.
func (m *WorkloadModel) Reassign(overloaded bool) bool {
	r := m.b.Workload.AssigneeChangeRateRange
	p := FloatBetween(m.rng, r[0], r[1])
	if overloaded {
		p *= 1.5
		if p > 0.9 {
			p = 0.9
		}
	}
	return m.rng.Float64() < p
}
