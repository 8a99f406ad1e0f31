// Package gen is the generation pipeline: a fixed sequence of phases that
// builds a coherent workspace bottom-up (organization, people, teams,
// projects, tasks, then satellites), enforcing referential, temporal and
// structural invariants inline as rows are produced. All randomness flows
// through one seeded stream, so a run is a pure function of (config, seed).
package gen

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"workseed/internal/config"
	"workseed/internal/corpus"
	"workseed/internal/dist"
	"workseed/internal/domain"
)

// Sink receives finished rows, phase by phase. The pipeline never retries a
// write; any sink error aborts the run.
type Sink interface {
	WriteOrganizations(ctx context.Context, rows []domain.Organization) error
	WriteUsers(ctx context.Context, rows []domain.User) error
	WriteTeams(ctx context.Context, rows []domain.Team) error
	WriteMemberships(ctx context.Context, rows []domain.TeamMembership) error
	WriteProjects(ctx context.Context, rows []domain.Project) error
	WriteSections(ctx context.Context, rows []domain.Section) error
	WriteTags(ctx context.Context, rows []domain.Tag) error
	WriteTasks(ctx context.Context, rows []domain.Task) error
	WriteDependencies(ctx context.Context, rows []domain.TaskDependency) error
	WriteComments(ctx context.Context, rows []domain.Comment) error
	WriteAttachments(ctx context.Context, rows []domain.Attachment) error
	WriteTaskTags(ctx context.Context, rows []domain.TaskTag) error
	WriteFieldDefinitions(ctx context.Context, rows []domain.CustomFieldDefinition) error
	WriteEnumOptions(ctx context.Context, rows []domain.CustomFieldEnumOption) error
	WriteFieldValues(ctx context.Context, rows []domain.CustomFieldValue) error
}

// Summary counts what a run produced, keyed the way the stats command
// reports tables.
type Summary struct {
	Organizations    int
	Users            int
	Teams            int
	Memberships      int
	Projects         int
	Sections         int
	Tags             int
	Tasks            int
	Dependencies     int
	Comments         int
	Attachments      int
	TaskTags         int
	FieldDefinitions int
	EnumOptions      int
	FieldValues      int
}

// Pipeline drives one generation run.
type Pipeline struct {
	cfg *config.Config
	c   *corpus.Corpus
	rng *rand.Rand
	eng *dist.Engine
	reg *Registry
	log *slog.Logger

	// now is the pinned clock: nothing generated is later than this.
	now         time.Time
	windowStart time.Time
}

// NewPipeline seeds the stream and pins the clock to the window end.
func NewPipeline(cfg *config.Config, c *corpus.Corpus, log *slog.Logger) *Pipeline {
	rng := rand.New(rand.NewSource(cfg.Generation.Seed))
	return &Pipeline{
		cfg:         cfg,
		c:           c,
		rng:         rng,
		eng:         dist.New(rng, c.Benchmarks, cfg.Generation.MaxResampleAttempts),
		reg:         NewRegistry(rng),
		log:         log,
		now:         cfg.WindowEndTime(),
		windowStart: cfg.WindowStartTime(),
	}
}

// Run executes every phase in order, handing each phase's rows to the sink.
// The first error aborts the run.
func (p *Pipeline) Run(ctx context.Context, sink Sink) (*Summary, error) {
	var sum Summary

	org, err := p.genOrganization()
	if err != nil {
		return nil, err
	}
	if err := sink.WriteOrganizations(ctx, []domain.Organization{org.row}); err != nil {
		return nil, err
	}
	sum.Organizations = 1
	p.log.Info("organization generated", "name", org.row.Name, "domain", org.row.Domain)

	users, err := p.genUsers(org)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteUsers(ctx, userRows(users)); err != nil {
		return nil, err
	}
	sum.Users = len(users)
	p.log.Info("users generated", "count", len(users))

	teams, err := p.genTeams(org, len(users))
	if err != nil {
		return nil, err
	}
	if err := sink.WriteTeams(ctx, teamRows(teams)); err != nil {
		return nil, err
	}
	sum.Teams = len(teams)
	p.log.Info("teams generated", "count", len(teams))

	memberships, err := p.genMemberships(teams, users)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteMemberships(ctx, memberships); err != nil {
		return nil, err
	}
	sum.Memberships = len(memberships)
	p.log.Info("memberships generated", "count", len(memberships))

	projects, err := p.genProjects(org, teams)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteProjects(ctx, projectRows(projects)); err != nil {
		return nil, err
	}
	sum.Projects = len(projects)
	p.log.Info("projects generated", "count", len(projects))

	sections, err := p.genSections(projects)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteSections(ctx, sections); err != nil {
		return nil, err
	}
	sum.Sections = len(sections)
	p.log.Info("sections generated", "count", len(sections))

	tags, err := p.genTags(org)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteTags(ctx, tags); err != nil {
		return nil, err
	}
	sum.Tags = len(tags)
	p.log.Info("tags generated", "count", len(tags))

	tasks, err := p.genTasks(projects, teams)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteTasks(ctx, taskRows(tasks)); err != nil {
		return nil, err
	}
	sum.Tasks = len(tasks)
	p.log.Info("tasks generated", "count", len(tasks))

	deps, err := p.genDependencies(tasks)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteDependencies(ctx, deps); err != nil {
		return nil, err
	}
	sum.Dependencies = len(deps)
	p.log.Info("dependencies generated", "count", len(deps))

	comments, err := p.genComments(tasks)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteComments(ctx, comments); err != nil {
		return nil, err
	}
	sum.Comments = len(comments)
	p.log.Info("comments generated", "count", len(comments))

	attachments, err := p.genAttachments(tasks)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteAttachments(ctx, attachments); err != nil {
		return nil, err
	}
	sum.Attachments = len(attachments)
	p.log.Info("attachments generated", "count", len(attachments))

	taskTags, err := p.genTaskTags(tasks, tags)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteTaskTags(ctx, taskTags); err != nil {
		return nil, err
	}
	sum.TaskTags = len(taskTags)
	p.log.Info("task tags generated", "count", len(taskTags))

	defs, options, values, err := p.genCustomFields(projects, tasks)
	if err != nil {
		return nil, err
	}
	if err := sink.WriteFieldDefinitions(ctx, defs); err != nil {
		return nil, err
	}
	if err := sink.WriteEnumOptions(ctx, options); err != nil {
		return nil, err
	}
	if err := sink.WriteFieldValues(ctx, values); err != nil {
		return nil, err
	}
	sum.FieldDefinitions = len(defs)
	sum.EnumOptions = len(options)
	sum.FieldValues = len(values)
	p.log.Info("custom fields generated",
		"definitions", len(defs), "options", len(options), "values", len(values))

	return &sum, nil
}
