package gen

import (
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

var edgeCountWeights = []float64{0.70, 0.20, 0.10}

// genDependencies runs the dependency pass: a configured fraction of tasks
// draw one to three blockers from their own project. An edge is accepted
// only when the blocker precedes the dependent in creation order, which
// keeps the graph a DAG without ever walking it, and when the blocker's due
// date does not land after the dependent's start. Each rejected draw counts
// against the retry bound; when it runs out the task's remaining edges are
// skipped.
func (p *Pipeline) genDependencies(tasks []*taskState) ([]domain.TaskDependency, error) {
	byProject := make(map[string][]*taskState)
	for _, t := range tasks {
		byProject[t.row.ProjectID] = append(byProject[t.row.ProjectID], t)
	}

	var rows []domain.TaskDependency
	seen := make(map[[2]string]bool)
	for _, t := range tasks {
		if p.rng.Float64() >= p.cfg.Tasks.DependencyFraction {
			continue
		}
		pool := byProject[t.row.ProjectID]
		if len(pool) < 2 {
			continue
		}
		edges := 1 + dist.WeightedIndex(p.rng, edgeCountWeights)
		for e := 0; e < edges; e++ {
			var blocker *taskState
			ok := dist.Attempt(p.cfg.Generation.MaxResampleAttempts, func() bool {
				c := dist.Pick(p.rng, pool)
				if c.row.ID == t.row.ID || c.rank >= t.rank {
					return false
				}
				if seen[[2]string{t.row.ID, c.row.ID}] {
					return false
				}
				if !temporallySound(c, t) {
					return false
				}
				blocker = c
				return true
			})
			if !ok {
				break
			}
			id, err := p.reg.Mint(KindDependency)
			if err != nil {
				return nil, err
			}
			if err := p.reg.Require(blocker.row.ID, KindTask); err != nil {
				return nil, err
			}
			created := t.row.CreatedAt
			if blocker.row.CreatedAt.After(created) {
				created = blocker.row.CreatedAt
			}
			created = created.Add(time.Duration(dist.FloatBetween(p.rng, 0, 24)) * time.Hour)
			if created.After(p.now) {
				created = p.now
			}
			seen[[2]string{t.row.ID, blocker.row.ID}] = true
			rows = append(rows, domain.TaskDependency{
				ID:               id,
				DependentTaskID:  t.row.ID,
				DependencyTaskID: blocker.row.ID,
				CreatedAt:        created,
			})
		}
	}
	return rows, nil
}

// temporallySound rejects a blocker whose deadline falls after the
// dependent's planned start; unknown dates pass.
func temporallySound(blocker, dependent *taskState) bool {
	if blocker.row.DueDate == nil || dependent.row.StartDate == nil {
		return true
	}
	return !blocker.row.DueDate.After(*dependent.row.StartDate)
}
