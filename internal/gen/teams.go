package gen

import (
	"fmt"
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

type teamState struct {
	row        domain.Team
	department string
	targetSize int
	members    []*userState
}

// departmentWeights shapes how teams spread across the org. Engineering
// dominates, the long tail gets at least one team each when counts allow.
var departmentWeights = map[string]float64{
	"Engineering":      0.35,
	"Sales":            0.22,
	"Customer Success": 0.18,
	"Product":          0.10,
	"Marketing":        0.09,
	"Operations":       0.06,
	"Data":             0.02,
	"Finance":          0.02,
	"HR":               0.02,
	"Design":           0.02,
	"Legal":            0.02,
}

var teamPrivacyWeights = map[string]float64{"public": 0.85, "private": 0.12, "secret": 0.03}

var teamFlavors = []string{
	"Core", "Platform", "Growth", "Infrastructure", "Enablement",
	"Delivery", "Strategy", "Insights", "Experience", "Launch",
}

// genTeams sizes the roster from the benchmark teams-per-100 range (or the
// config override) and spreads teams across departments.
func (p *Pipeline) genTeams(org *orgState, userCount int) ([]*teamState, error) {
	perHundred := p.cfg.Teams.PerHundredOverride
	if perHundred <= 0 {
		r := p.c.Benchmarks.TeamStructure.TeamsPerHundredRange
		perHundred = dist.IntBetween(p.rng, r[0], r[1])
	}
	count := userCount * perHundred / 100
	if count < 1 {
		count = 1
	}

	sizeRange := p.c.Benchmarks.TeamStructure.AvgTeamSizeRange
	sizeMode := (float64(sizeRange[0]) + float64(sizeRange[1])) / 2

	teams := make([]*teamState, 0, count)
	perDept := make(map[string]int, len(departmentWeights))
	for i := 0; i < count; i++ {
		dept := dist.WeightedCategory(p.rng, departmentWeights)
		perDept[dept]++

		name := dept + " " + dist.Pick(p.rng, teamFlavors)
		if perDept[dept] > 1 {
			name = fmt.Sprintf("%s %d", name, perDept[dept])
		}

		id, err := p.reg.Mint(KindTeam)
		if err != nil {
			return nil, err
		}
		created := org.row.CreatedAt.Add(
			time.Duration(dist.FloatBetween(p.rng, 0, 14*24)) * time.Hour)
		teams = append(teams, &teamState{
			row: domain.Team{
				ID:             id,
				OrganizationID: org.row.ID,
				Name:           name,
				TeamType:       dept,
				Description:    fmt.Sprintf("%s team at %s", dept, org.row.Name),
				Privacy:        dist.WeightedCategory(p.rng, teamPrivacyWeights),
				CreatedAt:      created,
			},
			department: dept,
			targetSize: int(dist.Triangular(p.rng,
				float64(sizeRange[0]), float64(sizeRange[1]), sizeMode)),
		})
	}
	return teams, nil
}

func teamRows(teams []*teamState) []domain.Team {
	rows := make([]domain.Team, len(teams))
	for i, t := range teams {
		rows[i] = t.row
	}
	return rows
}
