package dist

import (
	"math/rand"
	"testing"
	"time"

	"workseed/internal/corpus"
)

func testBench() corpus.Benchmarks {
	var b corpus.Benchmarks
	b.TaskCompletion.OverallRate = 0.72
	b.TaskCompletion.ByPriority = map[string]float64{"high": 0.89, "medium": 0.74, "low": 0.58}
	b.TaskCompletion.OverdueRate = 0.18
	b.ProjectSuccess.OnTimeCompletion = 0.70
	b.ProjectSuccess.ScopeChangeRate = 0.33
	b.Workload.TasksCreatedPerWeekRange = [2]int{6, 12}
	b.Workload.TasksCompletedPerWeekRange = [2]int{3, 6}
	b.Workload.AssigneeChangeRateRange = [2]float64{0.05, 0.15}
	b.TeamStructure.AvgTeamSizeRange = [2]int{6, 12}
	b.TeamStructure.TeamsPerHundredRange = [2]int{8, 15}
	b.SprintDynamics.SprintLengthDistribution = map[string]float64{
		"7_days": 0.15, "14_days": 0.60, "21_days": 0.15, "28_days": 0.10,
	}
	b.TimeMetrics.AvgTaskDurationDays = 5.3
	b.TimeMetrics.AvgTaskDurationDaysRange = [2]int{1, 30}
	b.TimeMetrics.SprintDuration = 14
	b.TimeMetrics.ProjectDurationMedian = 75
	return b
}

func TestAttemptBounds(t *testing.T) {
	calls := 0
	if Attempt(0, func() bool { calls++; return true }) {
		t.Error("bound 0 must fall back without drawing")
	}
	if calls != 0 {
		t.Errorf("bound 0 drew %d times", calls)
	}

	calls = 0
	if !Attempt(1, func() bool { calls++; return true }) {
		t.Error("bound 1 with accepting draw must succeed")
	}
	if calls != 1 {
		t.Errorf("bound 1 drew %d times, want 1", calls)
	}

	calls = 0
	if Attempt(5, func() bool { calls++; return false }) {
		t.Error("all-rejecting draw must report failure")
	}
	if calls != 5 {
		t.Errorf("drew %d times, want 5", calls)
	}
}

func TestTriangularStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := Triangular(rng, 1, 30, 5.3)
		if v < 1 || v > 30 {
			t.Fatalf("triangular sample %v out of [1, 30]", v)
		}
	}
}

func TestBetaStaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := Beta(rng, 2, 5)
		if v < 0 || v > 1 {
			t.Fatalf("beta sample %v out of [0, 1]", v)
		}
	}
}

func TestWeightedCategoryIsDeterministic(t *testing.T) {
	w := map[string]float64{"b": 0.3, "a": 0.5, "c": 0.2}
	first := make([]string, 20)
	for i := range first {
		rng := rand.New(rand.NewSource(int64(i)))
		first[i] = WeightedCategory(rng, w)
	}
	for i := range first {
		rng := rand.New(rand.NewSource(int64(i)))
		if got := WeightedCategory(rng, w); got != first[i] {
			t.Fatalf("seed %d: draw changed from %q to %q", i, first[i], got)
		}
	}
}

func TestSprintLengthDaysParsesMixture(t *testing.T) {
	e := New(rand.New(rand.NewSource(1)), testBench(), 8)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		d := e.Time.SprintLengthDays()
		switch d {
		case 7, 14, 21, 28:
			seen[d] = true
		default:
			t.Fatalf("sprint length %d not in mixture", d)
		}
	}
	if !seen[14] {
		t.Error("dominant 14-day sprint never drawn in 500 samples")
	}
}

func TestCompletionAtStaysInWindow(t *testing.T) {
	e := New(rand.New(rand.NewSource(1)), testBench(), 8)
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	limit := created.Add(48 * time.Hour)
	for i := 0; i < 200; i++ {
		done := e.Time.CompletionAt(created, limit)
		if done.Before(created) || done.After(limit) {
			t.Fatalf("completion %v outside (%v, %v)", done, created, limit)
		}
	}
}

func TestCompletionAtZeroBoundClampsImmediately(t *testing.T) {
	e := New(rand.New(rand.NewSource(1)), testBench(), 0)
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	limit := created.Add(10 * 24 * time.Hour)
	done := e.Time.CompletionAt(created, limit)
	if done.Before(created) || done.After(limit) {
		t.Fatalf("completion %v outside window with bound 0", done)
	}
}

func TestDueDateFloorAndParentCeiling(t *testing.T) {
	e := New(rand.New(rand.NewSource(7)), testBench(), 8)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	floor := created.Add(24 * time.Hour)
	for i := 0; i < 200; i++ {
		due := e.Due.DueDate(created, nil)
		if due.Before(floor) {
			t.Fatalf("due %v before created+1d", due)
		}
	}
	parentDue := created.Add(36 * time.Hour)
	for i := 0; i < 200; i++ {
		due := e.Due.DueDate(created, &parentDue)
		if due.After(parentDue) {
			t.Fatalf("child due %v after parent due %v", due, parentDue)
		}
	}
}

func TestOutcomeAggregateRate(t *testing.T) {
	e := New(rand.New(rand.NewSource(3)), testBench(), 8)
	const n = 5000
	completed := 0
	for i := 0; i < n; i++ {
		switch e.Completion.Outcome("medium", 30, false, false) {
		case OutcomeCompleted, OutcomeReopened:
			completed++
		}
	}
	rate := float64(completed) / n
	if rate < 0.66 || rate > 0.82 {
		t.Errorf("medium priority completion rate %.3f, want near 0.74", rate)
	}
}

func TestCapacityClamp(t *testing.T) {
	e := New(rand.New(rand.NewSource(1)), testBench(), 8)
	for i := 0; i < 1000; i++ {
		c := e.Workload.Capacity()
		if c < 0.5 || c > 2.0 {
			t.Fatalf("capacity %v out of [0.5, 2.0]", c)
		}
	}
}

func TestReassignCap(t *testing.T) {
	e := New(rand.New(rand.NewSource(1)), testBench(), 8)
	hits := 0
	const n = 5000
	for i := 0; i < n; i++ {
		if e.Workload.Reassign(true) {
			hits++
		}
	}
	if rate := float64(hits) / n; rate > 0.35 {
		t.Errorf("overloaded reassignment rate %.3f, expected well under cap", rate)
	}
}
