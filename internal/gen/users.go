package gen

import (
	"fmt"
	"strings"
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

// userState carries the sampled workload profile alongside the row; later
// phases weight assignment and detect overload with it.
type userState struct {
	row           domain.User
	capacity      float64
	weeklyCreated int
	overloaded    bool
}

var roleWeights = map[string]float64{"member": 0.95, "admin": 0.04, "limited": 0.01}

// departmentFor maps a job title onto a department by keyword. Titles the
// pool grows that match nothing land in Operations.
func departmentFor(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "engineer"), strings.Contains(t, "developer"),
		strings.Contains(t, "architect"), strings.Contains(t, "sre"),
		strings.Contains(t, "devops"), strings.Contains(t, "qa"):
		return "Engineering"
	case strings.Contains(t, "product"):
		return "Product"
	case strings.Contains(t, "design"), strings.Contains(t, "ux"), strings.Contains(t, "ui"):
		return "Design"
	case strings.Contains(t, "sales"), strings.Contains(t, "account executive"):
		return "Sales"
	case strings.Contains(t, "customer"), strings.Contains(t, "support"), strings.Contains(t, "success"):
		return "Customer Success"
	case strings.Contains(t, "market"), strings.Contains(t, "content"), strings.Contains(t, "brand"):
		return "Marketing"
	case strings.Contains(t, "data"), strings.Contains(t, "analyst"), strings.Contains(t, "analytics"):
		return "Data"
	case strings.Contains(t, "finance"), strings.Contains(t, "accountant"), strings.Contains(t, "controller"):
		return "Finance"
	case strings.Contains(t, "people"), strings.Contains(t, "recruit"), strings.Contains(t, "hr "):
		return "HR"
	case strings.Contains(t, "legal"), strings.Contains(t, "counsel"), strings.Contains(t, "compliance"):
		return "Legal"
	default:
		return "Operations"
	}
}

// genUsers builds the staff: unique emails on the org domain, a role mix
// dominated by plain members, hire dates skewed well before the window, and
// a per-user workload profile.
func (p *Pipeline) genUsers(org *orgState) ([]*userState, error) {
	n := p.cfg.Users.TargetCount
	hireFrom := p.windowStart.AddDate(-2, 0, 0)
	hireTo := p.now.AddDate(0, 0, -7)

	users := make([]*userState, 0, n)
	seenEmail := make(map[string]int, n)
	for i := 0; i < n; i++ {
		id, err := p.reg.Mint(KindUser)
		if err != nil {
			return nil, err
		}
		first := dist.Pick(p.rng, p.c.FirstNames)
		last := dist.Pick(p.rng, p.c.LastNames)
		base := strings.ToLower(first) + "." + strings.ToLower(last)
		local := base
		for c := seenEmail[local]; c > 0; c = seenEmail[local] {
			seenEmail[base]++
			local = fmt.Sprintf("%s%d", base, seenEmail[base])
		}
		seenEmail[local]++

		title := dist.Pick(p.rng, p.c.JobTitles)
		capacity := p.eng.Workload.Capacity()
		active := p.rng.Float64() < p.cfg.Users.ActiveRatio
		hired := p.eng.Time.HireDate(hireFrom, hireTo)

		var lastActive *time.Time
		if active {
			t := p.now.Add(-time.Duration(dist.FloatBetween(p.rng, 0, 7*24)) * time.Hour)
			lastActive = &t
		} else if p.rng.Float64() < 0.5 {
			t := p.now.Add(-time.Duration(dist.FloatBetween(p.rng, 30*24, 120*24)) * time.Hour)
			lastActive = &t
		}

		u := &userState{
			row: domain.User{
				ID:               id,
				OrganizationID:   org.row.ID,
				Email:            local + "@" + org.row.Domain,
				Name:             first + " " + last,
				Role:             dist.WeightedCategory(p.rng, roleWeights),
				Department:       departmentFor(title),
				JobTitle:         title,
				IsActive:         active,
				WorkloadCapacity: capacity,
				CreatedAt:        hired,
				LastActiveAt:     lastActive,
			},
			capacity:      capacity,
			weeklyCreated: p.eng.Workload.WeeklyCreated(capacity),
		}
		u.overloaded = p.eng.Workload.Overloaded(u.weeklyCreated, capacity)
		users = append(users, u)
	}
	return users, nil
}

func userRows(users []*userState) []domain.User {
	rows := make([]domain.User, len(users))
	for i, u := range users {
		rows[i] = u.row
	}
	return rows
}
