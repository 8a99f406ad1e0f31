package gen

import (
	"fmt"
	"math"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

type fieldSpec struct {
	name      string
	fieldType string
	options   []string
}

var fieldPool = []fieldSpec{
	{name: "Story Points", fieldType: "number"},
	{name: "Sprint", fieldType: "text"},
	{name: "Budget", fieldType: "number"},
	{name: "Release Version", fieldType: "text"},
	{name: "Effort", fieldType: "enum", options: []string{"XS", "S", "M", "L", "XL"}},
	{name: "Risk Level", fieldType: "enum", options: []string{"Low", "Medium", "High"}},
	{name: "Reviewed", fieldType: "checkbox"},
	{name: "QA Owner", fieldType: "user"},
	{name: "Target Date", fieldType: "date"},
}

var storyPoints = []float64{1, 2, 3, 5, 8, 13}

// genCustomFields gives each project two to four field definitions from the
// pool (enum fields get their option rows), then fills values on roughly
// 70% of tasks, covering 60-100% of the project's fields. Exactly one value
// channel is set per row, matching the declared type.
func (p *Pipeline) genCustomFields(projects []*projectState, tasks []*taskState) (
	[]domain.CustomFieldDefinition, []domain.CustomFieldEnumOption, []domain.CustomFieldValue, error) {

	type projectFields struct {
		defs    []domain.CustomFieldDefinition
		options map[string][]domain.CustomFieldEnumOption // field ID -> options
	}

	var defs []domain.CustomFieldDefinition
	var options []domain.CustomFieldEnumOption
	byProject := make(map[string]*projectFields, len(projects))

	for _, pr := range projects {
		pf := &projectFields{options: make(map[string][]domain.CustomFieldEnumOption)}
		n := dist.IntBetween(p.rng, 2, 4)
		picks := append([]fieldSpec{}, fieldPool...)
		p.rng.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
		for pos, spec := range picks[:n] {
			id, err := p.reg.Mint(KindFieldDef)
			if err != nil {
				return nil, nil, nil, err
			}
			def := domain.CustomFieldDefinition{
				ID:         id,
				ProjectID:  pr.row.ID,
				Name:       spec.name,
				FieldType:  spec.fieldType,
				IsRequired: p.rng.Float64() < 0.15,
				Position:   pos,
				CreatedAt:  pr.row.CreatedAt,
			}
			defs = append(defs, def)
			pf.defs = append(pf.defs, def)

			for i, val := range spec.options {
				oid, err := p.reg.Mint(KindEnumOption)
				if err != nil {
					return nil, nil, nil, err
				}
				opt := domain.CustomFieldEnumOption{
					ID:       oid,
					FieldID:  id,
					Value:    val,
					Color:    tagColors[i%len(tagColors)],
					Position: i,
				}
				options = append(options, opt)
				pf.options[id] = append(pf.options[id], opt)
			}
		}
		byProject[pr.row.ID] = pf
	}

	var values []domain.CustomFieldValue
	for _, t := range tasks {
		if p.rng.Float64() >= 0.70 {
			continue
		}
		pf := byProject[t.row.ProjectID]
		if pf == nil || len(pf.defs) == 0 {
			continue
		}
		fill := int(math.Ceil(dist.FloatBetween(p.rng, 0.6, 1.0) * float64(len(pf.defs))))
		for i := 0; i < fill; i++ {
			def := pf.defs[i]
			id, err := p.reg.Mint(KindFieldValue)
			if err != nil {
				return nil, nil, nil, err
			}
			v := domain.CustomFieldValue{
				ID:        id,
				TaskID:    t.row.ID,
				FieldID:   def.ID,
				CreatedAt: p.withinTaskLife(t),
			}
			if err := p.fillValue(&v, def, pf.options[def.ID], t); err != nil {
				return nil, nil, nil, err
			}
			values = append(values, v)
		}
	}
	return defs, options, values, nil
}

// fillValue sets the single channel matching the field type.
func (p *Pipeline) fillValue(v *domain.CustomFieldValue, def domain.CustomFieldDefinition,
	opts []domain.CustomFieldEnumOption, t *taskState) error {

	switch def.FieldType {
	case "number":
		var n float64
		if def.Name == "Story Points" {
			n = dist.Pick(p.rng, storyPoints)
		} else {
			n = math.Round(dist.FloatBetween(p.rng, 1_000, 100_000))
		}
		v.ValueNumber = &n
	case "text":
		var s string
		switch def.Name {
		case "Sprint":
			s = fmt.Sprintf("Sprint %d", 1+p.rng.Intn(20))
		case "Release Version":
			s = fmt.Sprintf("v%d.%d.%d", 1+p.rng.Intn(4), p.rng.Intn(10), p.rng.Intn(10))
		default:
			s = dist.Pick(p.rng, p.c.TaskPlaceholders)
		}
		v.ValueText = &s
	case "enum":
		opt := dist.Pick(p.rng, opts)
		v.ValueEnumOption = &opt.ID
	case "date":
		d := p.withinTaskLife(t).AddDate(0, 0, p.rng.Intn(30))
		v.ValueDate = &d
	case "checkbox":
		b := p.rng.Float64() < 0.5
		v.ValueCheckbox = &b
	case "user":
		u := dist.Pick(p.rng, t.project.team.members).row.ID
		if err := p.reg.Require(u, KindUser); err != nil {
			return err
		}
		v.ValueUserID = &u
	}
	return nil
}
