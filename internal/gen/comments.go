package gen

import (
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

var commentTexts = []string{
	"Picking this up now.",
	"Blocked on the review upstream, will circle back tomorrow.",
	"Updated the description with the latest requirements.",
	"Can someone from design take a look?",
	"Moved this out of the sprint after standup.",
	"Done, please verify on staging.",
	"Splitting this into smaller pieces.",
	"Customer confirmed the fix works.",
	"Needs a decision before we can proceed.",
	"Rebased and ready for another pass.",
	"Scope grew, re-estimating.",
	"Closing as duplicate of an earlier report.",
}

func commentProbability(t *taskState) float64 {
	p := 0.40
	switch t.row.Priority {
	case "high":
		p = 0.60
	case "low":
		p = 0.25
	}
	if t.row.Completed {
		p *= 1.2
	}
	if p > 0.80 {
		p = 0.80
	}
	return p
}

// genComments threads discussion onto a slice of tasks: probability scales
// with priority, counts skew low, timestamps stay inside the task's active
// life, and a few comments get pinned.
func (p *Pipeline) genComments(tasks []*taskState) ([]domain.Comment, error) {
	var rows []domain.Comment
	for _, t := range tasks {
		if p.rng.Float64() >= commentProbability(t) {
			continue
		}
		n := 1 + int(dist.Exponential(p.rng, meanComments(t.row.Priority)))
		if n > 10 {
			n = 10
		}
		for i := 0; i < n; i++ {
			id, err := p.reg.Mint(KindComment)
			if err != nil {
				return nil, err
			}
			author := p.commentAuthor(t)
			if err := p.reg.Require(author, KindUser); err != nil {
				return nil, err
			}
			rows = append(rows, domain.Comment{
				ID:        id,
				TaskID:    t.row.ID,
				AuthorID:  author,
				Text:      dist.Pick(p.rng, commentTexts),
				IsPinned:  p.rng.Float64() < 0.05,
				CreatedAt: p.withinTaskLife(t),
			})
		}
	}
	return rows, nil
}

func meanComments(priority string) float64 {
	switch priority {
	case "high":
		return 2.5
	case "low":
		return 1.0
	default:
		return 1.5
	}
}

// commentAuthor: the assignee half the time, otherwise someone else on the
// project's team.
func (p *Pipeline) commentAuthor(t *taskState) string {
	if p.rng.Float64() < 0.50 || len(t.project.team.members) == 1 {
		return t.row.AssigneeID
	}
	return dist.Pick(p.rng, t.project.team.members).row.ID
}

// withinTaskLife samples a timestamp in [created, activeUntil].
func (p *Pipeline) withinTaskLife(t *taskState) time.Time {
	span := t.activeUntil.Sub(t.row.CreatedAt)
	if span <= 0 {
		return t.row.CreatedAt
	}
	return t.row.CreatedAt.Add(time.Duration(p.rng.Float64() * float64(span)))
}
