package gen

import (
	"strings"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

type orgState struct {
	row domain.Organization
}

var tldWeights = map[string]float64{".com": 0.70, ".io": 0.20, ".dev": 0.10}

// genOrganization picks a company archetype near the configured size and
// derives the email/web domain from its name.
func (p *Pipeline) genOrganization() (*orgState, error) {
	size := p.cfg.Organization.CompanySize
	pool := p.c.CompaniesInSizeBand(size/2, size*2)
	co := dist.Pick(p.rng, pool)

	id, err := p.reg.Mint(KindOrganization)
	if err != nil {
		return nil, err
	}
	return &orgState{row: domain.Organization{
		ID:        id,
		Name:      co.Name,
		Domain:    slugify(co.Name) + dist.WeightedCategory(p.rng, tldWeights),
		CreatedAt: p.windowStart,
	}}, nil
}

// slugify lowercases a name and strips everything but letters and digits.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
