package gen

import (
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

const maxTeamsPerUser = 4

// teamCountWeights is the 1..4 teams-per-user mixture.
var teamCountWeights = []float64{0.60, 0.30, 0.08, 0.02}

// genMemberships places every user on at least one team and at most four,
// preferring teams of the user's department. Teams fill least-loaded-first
// toward their sampled target size and never past the benchmark size
// ceiling. The first member of each team is its admin. A final sweep
// catches anyone the affinity pass left out.
func (p *Pipeline) genMemberships(teams []*teamState, users []*userState) ([]domain.TeamMembership, error) {
	byDept := make(map[string][]*teamState)
	for _, t := range teams {
		byDept[t.department] = append(byDept[t.department], t)
	}
	sizeCap := p.c.Benchmarks.TeamStructure.AvgTeamSizeRange[1]

	teamsPerUser := make(map[string]int, len(users))
	var rows []domain.TeamMembership

	join := func(t *teamState, u *userState) error {
		id, err := p.reg.Mint(KindMembership)
		if err != nil {
			return err
		}
		if err := p.reg.Require(t.row.ID, KindTeam); err != nil {
			return err
		}
		if err := p.reg.Require(u.row.ID, KindUser); err != nil {
			return err
		}
		role := "member"
		if len(t.members) == 0 {
			role = "admin"
		}
		joined := u.row.CreatedAt
		if t.row.CreatedAt.After(joined) {
			joined = t.row.CreatedAt
		}
		joined = joined.Add(time.Duration(dist.FloatBetween(p.rng, 0, 30*24)) * time.Hour)
		if joined.After(p.now) {
			joined = p.now
		}
		rows = append(rows, domain.TeamMembership{
			ID:       id,
			TeamID:   t.row.ID,
			UserID:   u.row.ID,
			Role:     role,
			JoinedAt: joined,
		})
		t.members = append(t.members, u)
		teamsPerUser[u.row.ID]++
		return nil
	}

	onTeam := func(t *teamState, u *userState) bool {
		for _, m := range t.members {
			if m.row.ID == u.row.ID {
				return true
			}
		}
		return false
	}

	// Least-loaded team in pool the user is not already on. Teams at the
	// benchmark ceiling never accept; underTarget additionally restricts
	// to teams still below their own sampled size.
	pick := func(pool []*teamState, u *userState, underTarget bool) *teamState {
		var best *teamState
		for _, t := range pool {
			if onTeam(t, u) || len(t.members) >= sizeCap {
				continue
			}
			if underTarget && len(t.members) >= t.targetSize {
				continue
			}
			if best == nil || len(t.members) < len(best.members) {
				best = t
			}
		}
		return best
	}

	choose := func(u *userState) *teamState {
		dept := byDept[u.row.Department]
		if t := pick(dept, u, true); t != nil {
			return t
		}
		if t := pick(teams, u, true); t != nil {
			return t
		}
		if t := pick(dept, u, false); t != nil {
			return t
		}
		return pick(teams, u, false)
	}

	// Affinity pass: each user draws a target count and joins department
	// teams first, spilling into org-wide teams with room left.
	for _, u := range users {
		want := 1 + dist.WeightedIndex(p.rng, teamCountWeights)
		for joined := 0; joined < want; joined++ {
			t := choose(u)
			if t == nil {
				// every team sits at the benchmark ceiling
				break
			}
			if err := join(t, u); err != nil {
				return nil, err
			}
		}
	}

	// Sweep: nobody is teamless, no team is empty. A user who cannot be
	// placed under the ceiling still gets the smallest team; at-least-one
	// outranks the size range.
	for _, u := range users {
		if teamsPerUser[u.row.ID] > 0 {
			continue
		}
		t := choose(u)
		if t == nil {
			t = smallestTeam(teams)
		}
		if err := join(t, u); err != nil {
			return nil, err
		}
	}
	for _, t := range teams {
		if len(t.members) > 0 {
			continue
		}
		var u *userState
		for _, cand := range users {
			if teamsPerUser[cand.row.ID] >= maxTeamsPerUser {
				continue
			}
			if u == nil || teamsPerUser[cand.row.ID] < teamsPerUser[u.row.ID] {
				u = cand
			}
		}
		if u == nil {
			// every user is at the cap; an empty team beats a cap break
			continue
		}
		if err := join(t, u); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func smallestTeam(teams []*teamState) *teamState {
	var best *teamState
	for _, t := range teams {
		if best == nil || len(t.members) < len(best.members) {
			best = t
		}
	}
	return best
}
