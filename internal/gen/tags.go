package gen

import (
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

var tagPool = []string{
	"backend", "frontend", "api", "infrastructure", "security", "mobile",
	"design-review", "needs-spec", "blocked", "quick-win", "tech-debt",
	"customer-request", "regression", "performance", "documentation",
	"q1", "q2", "q3", "q4", "launch", "beta", "internal", "urgent",
	"research", "experiment", "accessibility", "compliance", "migration",
}

var tagColors = []string{
	"blue", "green", "red", "orange", "purple", "teal", "pink", "yellow", "gray",
}

// genTags mints an org-scoped subset of the tag pool. Names are unique per
// organization by construction.
func (p *Pipeline) genTags(org *orgState) ([]domain.Tag, error) {
	want := dist.IntBetween(p.rng, 15, len(tagPool))
	picked := make(map[string]bool, want)
	order := make([]string, 0, want)
	for len(order) < want {
		name := dist.Pick(p.rng, tagPool)
		if picked[name] {
			continue
		}
		picked[name] = true
		order = append(order, name)
	}

	rows := make([]domain.Tag, 0, len(order))
	for i, name := range order {
		id, err := p.reg.Mint(KindTag)
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.Tag{
			ID:             id,
			OrganizationID: org.row.ID,
			Name:           name,
			Color:          tagColors[i%len(tagColors)],
			CreatedAt: org.row.CreatedAt.Add(
				time.Duration(dist.FloatBetween(p.rng, 0, 30*24)) * time.Hour),
		})
	}
	return rows, nil
}
