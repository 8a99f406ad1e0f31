package gen

import (
	"fmt"
	"time"

	"workseed/internal/corpus"
	"workseed/internal/dist"
	"workseed/internal/domain"
)

type projectState struct {
	row      domain.Project
	template corpus.ProjectTemplate
	team     *teamState
	sections []domain.Section
	// taskEnd is where task activity stops: project due or "now",
	// whichever comes first.
	taskEnd time.Time
}

var projectPrivacyWeights = map[string]float64{"team": 0.80, "public": 0.15, "private": 0.05}

var projectColors = []string{
	"dark-blue", "dark-green", "dark-red", "dark-teal", "dark-purple",
	"light-blue", "light-green", "light-orange", "light-pink", "light-yellow",
}

var projectQualifiers = map[string][]string{
	"sprint":       {"Sprint Board", "Iteration", "Delivery Sprint", "Sprint Cycle"},
	"ongoing":      {"Operations", "Intake", "Backlog", "Requests"},
	"bug_tracking": {"Bug Triage", "Defects", "Quality Board", "Incident Log"},
	"campaign":     {"Campaign", "Launch Plan", "Rollout", "Push"},
	"roadmap":      {"Roadmap", "Initiatives", "Milestones", "Planning"},
}

// statusWeights buckets by project age: younger projects are mostly
// active, older ones mostly wrapped up.
func statusWeights(ageDays float64) map[string]float64 {
	switch {
	case ageDays < 30:
		return map[string]float64{"active": 0.75, "completed": 0.10, "archived": 0.10, "on_hold": 0.05}
	case ageDays < 90:
		return map[string]float64{"active": 0.50, "completed": 0.30, "archived": 0.15, "on_hold": 0.05}
	default:
		return map[string]float64{"active": 0.20, "completed": 0.50, "archived": 0.25, "on_hold": 0.05}
	}
}

// genProjects creates each team's boards from weighted templates. The owner
// is always a member of the owning team, and completed_at only exists for
// finished statuses, inside [start, now].
func (p *Pipeline) genProjects(org *orgState, teams []*teamState) ([]*projectState, error) {
	tplWeights := make([]float64, len(p.c.ProjectTemplates))
	for i, t := range p.c.ProjectTemplates {
		tplWeights[i] = t.Weight
	}

	var projects []*projectState
	for _, team := range teams {
		if len(team.members) == 0 {
			// membership leaves a team empty when every user holds the
			// teams-per-user cap; a board with no possible owner is skipped
			p.log.Warn("skipping projects for memberless team", "team", team.row.Name)
			continue
		}
		n := dist.IntBetween(p.rng, p.cfg.Projects.PerTeamMin, p.cfg.Projects.PerTeamMax)
		for i := 0; i < n; i++ {
			tpl := p.c.ProjectTemplates[dist.WeightedIndex(p.rng, tplWeights)]

			start := p.eng.Time.CreatedWithin(p.windowStart, p.now.AddDate(0, 0, -14))
			days := p.eng.Time.ProjectDurationDays(tpl.DurationDaysRange[0], tpl.DurationDaysRange[1])
			due := start.AddDate(0, 0, days)
			created := start.Add(-time.Duration(dist.FloatBetween(p.rng, 0, 7*24)) * time.Hour)
			if created.Before(p.windowStart) {
				created = p.windowStart
			}

			age := p.now.Sub(start).Hours() / 24
			status := dist.WeightedCategory(p.rng, statusWeights(age))
			var completedAt *time.Time
			if status == "completed" || status == "archived" {
				end := due
				if end.After(p.now) {
					end = p.now
				}
				t := p.eng.Time.CompletionAt(start.Add(24*time.Hour), end)
				completedAt = &t
			}

			owner := dist.Pick(p.rng, team.members)
			if err := p.reg.Require(owner.row.ID, KindUser); err != nil {
				return nil, err
			}
			id, err := p.reg.Mint(KindProject)
			if err != nil {
				return nil, err
			}

			taskEnd := due
			if completedAt != nil {
				taskEnd = *completedAt
			}
			if taskEnd.After(p.now) {
				taskEnd = p.now
			}

			projects = append(projects, &projectState{
				row: domain.Project{
					ID:             id,
					OrganizationID: org.row.ID,
					TeamID:         team.row.ID,
					OwnerID:        owner.row.ID,
					Name:           projectName(p, team, tpl.Type, i),
					Description:    fmt.Sprintf("%s work tracked by %s", tpl.Type, team.row.Name),
					ProjectType:    tpl.Type,
					Privacy:        dist.WeightedCategory(p.rng, projectPrivacyWeights),
					Status:         status,
					Color:          dist.Pick(p.rng, projectColors),
					StartDate:      start,
					DueDate:        due,
					CompletedAt:    completedAt,
					CreatedAt:      created,
				},
				template: tpl,
				team:     team,
				taskEnd:  taskEnd,
			})
		}
	}
	return projects, nil
}

func projectName(p *Pipeline, team *teamState, projectType string, ordinal int) string {
	pool, ok := projectQualifiers[projectType]
	if !ok {
		pool = projectQualifiers["ongoing"]
	}
	name := team.row.Name + " " + dist.Pick(p.rng, pool)
	if ordinal > 0 {
		name = fmt.Sprintf("%s %d", name, ordinal+1)
	}
	return name
}

func projectRows(projects []*projectState) []domain.Project {
	rows := make([]domain.Project, len(projects))
	for i, pr := range projects {
		rows[i] = pr.row
	}
	return rows
}

// genSections lays out each project's columns from its template, positions
// contiguous from zero.
func (p *Pipeline) genSections(projects []*projectState) ([]domain.Section, error) {
	var rows []domain.Section
	for _, pr := range projects {
		for pos, name := range pr.template.TypicalSections {
			id, err := p.reg.Mint(KindSection)
			if err != nil {
				return nil, err
			}
			s := domain.Section{
				ID:        id,
				ProjectID: pr.row.ID,
				Name:      name,
				Position:  pos,
				CreatedAt: pr.row.CreatedAt,
			}
			pr.sections = append(pr.sections, s)
			rows = append(rows, s)
		}
	}
	return rows, nil
}
