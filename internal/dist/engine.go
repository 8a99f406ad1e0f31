package dist

import (
	"math/rand"

	"workseed/internal/corpus"
)

// Engine bundles the four calibrated models over one shared random stream.
type Engine struct {
	Time       *TimeModel
	Workload   *WorkloadModel
	Completion *CompletionModel
	Due        *DueDateModel

	MaxAttempts int
}

// New builds an engine. maxAttempts bounds every resample loop; zero means
// fall back immediately.
func New(rng *rand.Rand, b corpus.Benchmarks, maxAttempts int) *Engine {
	return &Engine{
		Time:        &TimeModel{rng: rng, b: b, maxAttempts: maxAttempts},
		Workload:    &WorkloadModel{rng: rng, b: b},
		Completion:  &CompletionModel{rng: rng, b: b},
		Due:         &DueDateModel{rng: rng, b: b, maxAttempts: maxAttempts},
		MaxAttempts: maxAttempts,
	}
}
