// Package corpus provides read-only access to the research data that
// calibrates all sampling: categorical pools (names, job titles, company
// archetypes, task-title patterns, project templates) and numeric
// benchmarks. A default corpus ships embedded; a research directory of the
// same JSON documents can override it.
package corpus

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"workseed/internal/errs"
)

//go:embed data/*.json
var defaultFS embed.FS

// Benchmarks mirrors benchmarks.json: named ranges and weighted mixtures
// derived from external research.
type Benchmarks struct {
	TaskCompletion struct {
		OverallRate float64            `json:"overall_rate"`
		ByPriority  map[string]float64 `json:"by_priority"`
		OverdueRate float64            `json:"overdue_rate"`
	} `json:"task_completion"`
	ProjectSuccess struct {
		OnTimeCompletion float64 `json:"on_time_completion"`
		ScopeChangeRate  float64 `json:"scope_change_rate"`
	} `json:"project_success"`
	Workload struct {
		TasksCreatedPerWeekRange   [2]int     `json:"tasks_created_per_employee_per_week_range"`
		TasksCompletedPerWeekRange [2]int     `json:"tasks_completed_per_employee_per_week_range"`
		AssigneeChangeRateRange    [2]float64 `json:"assignee_change_rate_range"`
	} `json:"workload"`
	TeamStructure struct {
		AvgTeamSizeRange         [2]int `json:"avg_team_size_range"`
		TeamsPerHundredRange     [2]int `json:"teams_per_100_employees_range"`
	} `json:"team_structure"`
	SprintDynamics struct {
		SprintLengthDistribution map[string]float64 `json:"sprint_length_days_distribution"`
	} `json:"sprint_dynamics"`
	TimeMetrics struct {
		AvgTaskDurationDays      float64           `json:"avg_task_duration_days"`
		AvgTaskDurationDaysRange [2]int            `json:"avg_task_duration_days_range"`
		SprintDuration           int               `json:"sprint_duration"`
		ProjectDurationMedian    int               `json:"project_duration_median"`
		ProjectDurationDaysRange map[string][2]int `json:"project_duration_days_range"`
	} `json:"time_metrics"`
}

// Company is one archetype from companies.json.
type Company struct {
	Name        string   `json:"name"`
	Industry    string   `json:"industry"`
	Subindustry string   `json:"subindustry"`
	Description string   `json:"description"`
	TeamSize    int      `json:"team_size"`
	Tags        []string `json:"tags"`
}

// ProjectTemplate is one entry of project_templates.json.
type ProjectTemplate struct {
	Type             string   `json:"type"`
	Weight           float64  `json:"weight"`
	DurationDaysRange [2]int  `json:"duration_days_range"`
	TypicalSections  []string `json:"typical_sections"`
}

// Corpus is the loaded, validated research data. It is never mutated after
// Load returns.
type Corpus struct {
	FirstNames       []string
	LastNames        []string
	JobTitles        []string
	Companies        []Company
	ProjectTemplates []ProjectTemplate
	TaskTitles       map[string][]string
	TaskPlaceholders []string
	Benchmarks       Benchmarks
}

type namesDoc struct {
	FirstNames []string `json:"first_names"`
	LastNames  []string `json:"last_names"`
}

type jobTitlesDoc struct {
	JobTitles []string `json:"job_titles"`
}

type taskTitlesDoc struct {
	Patterns     map[string][]string `json:"patterns"`
	Placeholders []string            `json:"placeholders"`
}

// Load reads the corpus. With dir == "" the embedded defaults are used;
// otherwise each document is read from dir and must be present there.
func Load(dir string) (*Corpus, error) {
	read := func(name string) ([]byte, error) {
		if dir == "" {
			return defaultFS.ReadFile("data/" + name)
		}
		return os.ReadFile(filepath.Join(dir, name))
	}

	var c Corpus

	var names namesDoc
	if err := loadDoc(read, "names.json", &names); err != nil {
		return nil, err
	}
	c.FirstNames = names.FirstNames
	c.LastNames = names.LastNames

	var titles jobTitlesDoc
	if err := loadDoc(read, "job_titles.json", &titles); err != nil {
		return nil, err
	}
	c.JobTitles = titles.JobTitles

	if err := loadDoc(read, "companies.json", &c.Companies); err != nil {
		return nil, err
	}
	if err := loadDoc(read, "project_templates.json", &c.ProjectTemplates); err != nil {
		return nil, err
	}

	var tasks taskTitlesDoc
	if err := loadDoc(read, "task_titles.json", &tasks); err != nil {
		return nil, err
	}
	c.TaskTitles = tasks.Patterns
	c.TaskPlaceholders = tasks.Placeholders

	if err := loadDoc(read, "benchmarks.json", &c.Benchmarks); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadDoc(read func(string) ([]byte, error), name string, out any) error {
	data, err := read(name)
	if err != nil {
		return goerr.Wrap(err, "read corpus document", goerr.T(errs.TagCorpus), goerr.V("document", name))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return goerr.Wrap(err, "parse corpus document", goerr.T(errs.TagCorpus), goerr.V("document", name))
	}
	return nil
}

func (c *Corpus) validate() error {
	if len(c.FirstNames) == 0 || len(c.LastNames) == 0 {
		return goerr.New("names pool is empty", goerr.T(errs.TagCorpus))
	}
	if len(c.JobTitles) == 0 {
		return goerr.New("job titles pool is empty", goerr.T(errs.TagCorpus))
	}
	if len(c.Companies) == 0 {
		return goerr.New("company archetype pool is empty", goerr.T(errs.TagCorpus))
	}
	if len(c.ProjectTemplates) == 0 {
		return goerr.New("project template pool is empty", goerr.T(errs.TagCorpus))
	}
	if len(c.TaskPlaceholders) == 0 || len(c.TaskTitles) == 0 {
		return goerr.New("task title pattern pool is empty", goerr.T(errs.TagCorpus))
	}
	b := &c.Benchmarks
	if b.TaskCompletion.OverallRate <= 0 || b.TaskCompletion.OverallRate > 1 {
		return goerr.New("task_completion.overall_rate out of range",
			goerr.T(errs.TagCorpus), goerr.V("rate", b.TaskCompletion.OverallRate))
	}
	if b.TaskCompletion.OverdueRate < 0 || b.TaskCompletion.OverdueRate > 1 {
		return goerr.New("task_completion.overdue_rate out of range", goerr.T(errs.TagCorpus))
	}
	if len(b.SprintDynamics.SprintLengthDistribution) == 0 {
		return goerr.New("sprint length distribution is empty", goerr.T(errs.TagCorpus))
	}
	if b.TeamStructure.AvgTeamSizeRange[0] <= 0 ||
		b.TeamStructure.AvgTeamSizeRange[1] < b.TeamStructure.AvgTeamSizeRange[0] {
		return goerr.New("team size range is invalid", goerr.T(errs.TagCorpus),
			goerr.V("range", b.TeamStructure.AvgTeamSizeRange))
	}
	if b.TimeMetrics.AvgTaskDurationDaysRange[1] < b.TimeMetrics.AvgTaskDurationDaysRange[0] {
		return goerr.New("task duration range is invalid", goerr.T(errs.TagCorpus))
	}
	for _, tpl := range c.ProjectTemplates {
		if tpl.Type == "" || tpl.Weight <= 0 || len(tpl.TypicalSections) == 0 {
			return goerr.New("project template is malformed", goerr.T(errs.TagCorpus),
				goerr.V("type", tpl.Type))
		}
	}
	return nil
}

// CompaniesInSizeBand filters archetypes around a target employee count,
// falling back to the whole pool when none fit.
func (c *Corpus) CompaniesInSizeBand(lo, hi int) []Company {
	var out []Company
	for _, co := range c.Companies {
		if co.TeamSize >= lo && co.TeamSize <= hi {
			out = append(out, co)
		}
	}
	if len(out) == 0 {
		return c.Companies
	}
	return out
}

// TitlePatterns returns the task name patterns for a project type, with the
// ongoing pool as fallback.
func (c *Corpus) TitlePatterns(projectType string) []string {
	if p, ok := c.TaskTitles[projectType]; ok {
		return p
	}
	return c.TaskTitles["ongoing"]
}
