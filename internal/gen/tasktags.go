package gen

import (
	"workseed/internal/dist"
	"workseed/internal/domain"
)

func tagProbability(priority string) float64 {
	switch priority {
	case "high":
		return 0.45
	case "low":
		return 0.25
	default:
		return 0.35
	}
}

// genTaskTags labels a priority-weighted fraction of tasks with one to
// three distinct org tags.
func (p *Pipeline) genTaskTags(tasks []*taskState, tags []domain.Tag) ([]domain.TaskTag, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var rows []domain.TaskTag
	for _, t := range tasks {
		if p.rng.Float64() >= tagProbability(t.row.Priority) {
			continue
		}
		n := dist.IntBetween(p.rng, 1, 3)
		if n > len(tags) {
			n = len(tags)
		}
		used := make(map[string]bool, n)
		for len(used) < n {
			tag := dist.Pick(p.rng, tags)
			if used[tag.ID] {
				continue
			}
			used[tag.ID] = true
			id, err := p.reg.Mint(KindTaskTag)
			if err != nil {
				return nil, err
			}
			if err := p.reg.Require(tag.ID, KindTag); err != nil {
				return nil, err
			}
			rows = append(rows, domain.TaskTag{
				ID:        id,
				TaskID:    t.row.ID,
				TagID:     tag.ID,
				CreatedAt: p.withinTaskLife(t),
			})
		}
	}
	return rows, nil
}
