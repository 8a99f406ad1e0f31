package gen

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"workseed/internal/config"
	"workseed/internal/corpus"
	"workseed/internal/domain"
)

// captureSink keeps every phase's rows in memory so invariants can be
// checked without a database.
type captureSink struct {
	orgs        []domain.Organization
	users       []domain.User
	teams       []domain.Team
	memberships []domain.TeamMembership
	projects    []domain.Project
	sections    []domain.Section
	tags        []domain.Tag
	tasks       []domain.Task
	deps        []domain.TaskDependency
	comments    []domain.Comment
	attachments []domain.Attachment
	taskTags    []domain.TaskTag
	defs        []domain.CustomFieldDefinition
	options     []domain.CustomFieldEnumOption
	values      []domain.CustomFieldValue
}

func (s *captureSink) WriteOrganizations(_ context.Context, r []domain.Organization) error {
	s.orgs = append(s.orgs, r...)
	return nil
}
func (s *captureSink) WriteUsers(_ context.Context, r []domain.User) error {
	s.users = append(s.users, r...)
	return nil
}
func (s *captureSink) WriteTeams(_ context.Context, r []domain.Team) error {
	s.teams = append(s.teams, r...)
	return nil
}
func (s *captureSink) WriteMemberships(_ context.Context, r []domain.TeamMembership) error {
	s.memberships = append(s.memberships, r...)
	return nil
}
func (s *captureSink) WriteProjects(_ context.Context, r []domain.Project) error {
	s.projects = append(s.projects, r...)
	return nil
}
func (s *captureSink) WriteSections(_ context.Context, r []domain.Section) error {
	s.sections = append(s.sections, r...)
	return nil
}
func (s *captureSink) WriteTags(_ context.Context, r []domain.Tag) error {
	s.tags = append(s.tags, r...)
	return nil
}
func (s *captureSink) WriteTasks(_ context.Context, r []domain.Task) error {
	s.tasks = append(s.tasks, r...)
	return nil
}
func (s *captureSink) WriteDependencies(_ context.Context, r []domain.TaskDependency) error {
	s.deps = append(s.deps, r...)
	return nil
}
func (s *captureSink) WriteComments(_ context.Context, r []domain.Comment) error {
	s.comments = append(s.comments, r...)
	return nil
}
func (s *captureSink) WriteAttachments(_ context.Context, r []domain.Attachment) error {
	s.attachments = append(s.attachments, r...)
	return nil
}
func (s *captureSink) WriteTaskTags(_ context.Context, r []domain.TaskTag) error {
	s.taskTags = append(s.taskTags, r...)
	return nil
}
func (s *captureSink) WriteFieldDefinitions(_ context.Context, r []domain.CustomFieldDefinition) error {
	s.defs = append(s.defs, r...)
	return nil
}
func (s *captureSink) WriteEnumOptions(_ context.Context, r []domain.CustomFieldEnumOption) error {
	s.options = append(s.options, r...)
	return nil
}
func (s *captureSink) WriteFieldValues(_ context.Context, r []domain.CustomFieldValue) error {
	s.values = append(s.values, r...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Users.TargetCount = 12
	cfg.Tasks.Weeks = 2
	cfg.Generation.Seed = 42
	cfg.Generation.WindowEnd = "2026-06-30"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return cfg
}

func runPipeline(t *testing.T, cfg *config.Config) *captureSink {
	t.Helper()
	c, err := corpus.Load("")
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	s := &captureSink{}
	if _, err := NewPipeline(cfg, c, testLogger()).Run(context.Background(), s); err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	return s
}

func TestPipelineReferentialIntegrity(t *testing.T) {
	cfg := testConfig(t)
	s := runPipeline(t, cfg)

	if len(s.orgs) != 1 {
		t.Fatalf("got %d organizations, want 1", len(s.orgs))
	}
	userIDs := make(map[string]bool)
	for _, u := range s.users {
		if u.OrganizationID != s.orgs[0].ID {
			t.Errorf("user %s references foreign org %s", u.ID, u.OrganizationID)
		}
		userIDs[u.ID] = true
	}
	teamIDs := make(map[string]bool)
	for _, tm := range s.teams {
		teamIDs[tm.ID] = true
	}
	projectIDs := make(map[string]bool)
	projectTeam := make(map[string]string)
	for _, pr := range s.projects {
		if !teamIDs[pr.TeamID] {
			t.Errorf("project %s references unknown team %s", pr.ID, pr.TeamID)
		}
		if !userIDs[pr.OwnerID] {
			t.Errorf("project %s owner %s is not a user", pr.ID, pr.OwnerID)
		}
		projectIDs[pr.ID] = true
		projectTeam[pr.ID] = pr.TeamID
	}
	sectionIDs := make(map[string]bool)
	for _, sec := range s.sections {
		if !projectIDs[sec.ProjectID] {
			t.Errorf("section %s references unknown project %s", sec.ID, sec.ProjectID)
		}
		sectionIDs[sec.ID] = true
	}
	taskByID := make(map[string]domain.Task)
	for _, task := range s.tasks {
		if !projectIDs[task.ProjectID] {
			t.Errorf("task %s references unknown project %s", task.ID, task.ProjectID)
		}
		if !userIDs[task.AssigneeID] || !userIDs[task.CreatedBy] {
			t.Errorf("task %s has unknown assignee or creator", task.ID)
		}
		if task.SectionID != nil && !sectionIDs[*task.SectionID] {
			t.Errorf("task %s references unknown section %s", task.ID, *task.SectionID)
		}
		taskByID[task.ID] = task
	}
	for _, task := range s.tasks {
		if task.ParentTaskID == nil {
			continue
		}
		parent, ok := taskByID[*task.ParentTaskID]
		if !ok {
			t.Errorf("task %s references unknown parent %s", task.ID, *task.ParentTaskID)
			continue
		}
		if parent.ProjectID != task.ProjectID {
			t.Errorf("subtask %s crosses projects", task.ID)
		}
	}
	for _, c := range s.comments {
		if _, ok := taskByID[c.TaskID]; !ok {
			t.Errorf("comment %s references unknown task", c.ID)
		}
		if !userIDs[c.AuthorID] {
			t.Errorf("comment %s author is not a user", c.ID)
		}
	}
	for _, a := range s.attachments {
		if _, ok := taskByID[a.TaskID]; !ok {
			t.Errorf("attachment %s references unknown task", a.ID)
		}
		if !userIDs[a.UploaderID] {
			t.Errorf("attachment %s uploader is not a user", a.ID)
		}
	}
}

func TestPipelineMembershipInvariants(t *testing.T) {
	s := runPipeline(t, testConfig(t))

	perUser := make(map[string]int)
	seenPair := make(map[[2]string]bool)
	teamAdmins := make(map[string]int)
	for _, m := range s.memberships {
		pair := [2]string{m.TeamID, m.UserID}
		if seenPair[pair] {
			t.Errorf("duplicate membership %v", pair)
		}
		seenPair[pair] = true
		perUser[m.UserID]++
		if m.Role == "admin" {
			teamAdmins[m.TeamID]++
		}
	}
	for _, u := range s.users {
		n := perUser[u.ID]
		if n < 1 {
			t.Errorf("user %s is on no team", u.ID)
		}
		if n > 4 {
			t.Errorf("user %s is on %d teams, cap is 4", u.ID, n)
		}
	}
	for _, tm := range s.teams {
		if teamAdmins[tm.ID] == 0 {
			t.Errorf("team %s has no admin", tm.ID)
		}
	}
}

func TestPipelineProjectOwnerOnTeam(t *testing.T) {
	s := runPipeline(t, testConfig(t))

	onTeam := make(map[[2]string]bool)
	for _, m := range s.memberships {
		onTeam[[2]string{m.TeamID, m.UserID}] = true
	}
	for _, pr := range s.projects {
		if !onTeam[[2]string{pr.TeamID, pr.OwnerID}] {
			t.Errorf("project %s owner %s is not on team %s", pr.ID, pr.OwnerID, pr.TeamID)
		}
	}
}

func TestPipelineSectionPositionsContiguous(t *testing.T) {
	s := runPipeline(t, testConfig(t))

	byProject := make(map[string][]int)
	for _, sec := range s.sections {
		byProject[sec.ProjectID] = append(byProject[sec.ProjectID], sec.Position)
	}
	for pid, positions := range byProject {
		seen := make(map[int]bool, len(positions))
		for _, p := range positions {
			if p < 0 || p >= len(positions) || seen[p] {
				t.Errorf("project %s has non-contiguous positions %v", pid, positions)
				break
			}
			seen[p] = true
		}
	}
}

func TestPipelineTemporalInvariants(t *testing.T) {
	cfg := testConfig(t)
	s := runPipeline(t, cfg)
	now := cfg.WindowEndTime()

	taskByID := make(map[string]domain.Task, len(s.tasks))
	for _, task := range s.tasks {
		taskByID[task.ID] = task
	}
	for _, task := range s.tasks {
		if task.CreatedAt.After(now) {
			t.Errorf("task %s created after the window end", task.ID)
		}
		if task.ModifiedAt.Before(task.CreatedAt) {
			t.Errorf("task %s modified before created", task.ID)
		}
		if task.Completed {
			if task.CompletedAt == nil {
				t.Errorf("completed task %s has no completed_at", task.ID)
			} else if task.CompletedAt.Before(task.CreatedAt) || task.CompletedAt.After(now) {
				t.Errorf("task %s completed_at outside (created, now)", task.ID)
			}
		} else if task.CompletedAt != nil {
			t.Errorf("open task %s carries completed_at", task.ID)
		}
		if task.StartDate != nil && task.DueDate != nil && task.StartDate.After(*task.DueDate) {
			t.Errorf("task %s starts after its due date", task.ID)
		}
		if task.DueDate != nil {
			if floor := task.CreatedAt.Add(24 * time.Hour); task.DueDate.Before(floor) {
				t.Errorf("task %s due less than a day after creation", task.ID)
			}
		}
		if task.ParentTaskID != nil {
			parent := taskByID[*task.ParentTaskID]
			if task.CreatedAt.Before(parent.CreatedAt) {
				t.Errorf("subtask %s created before its parent", task.ID)
			}
			if task.DueDate != nil && parent.DueDate != nil && task.DueDate.After(*parent.DueDate) {
				t.Errorf("subtask %s due after its parent", task.ID)
			}
		}
	}
	for _, c := range s.comments {
		task := taskByID[c.TaskID]
		if c.CreatedAt.Before(task.CreatedAt) || c.CreatedAt.After(now) {
			t.Errorf("comment %s timestamp outside task life", c.ID)
		}
	}
}

func TestPipelineSubtaskDepthBound(t *testing.T) {
	cfg := testConfig(t)
	s := runPipeline(t, cfg)

	parentOf := make(map[string]*string, len(s.tasks))
	for _, task := range s.tasks {
		parentOf[task.ID] = task.ParentTaskID
	}
	for _, task := range s.tasks {
		depth := 0
		for p := task.ParentTaskID; p != nil; p = parentOf[*p] {
			depth++
			if depth > cfg.Tasks.MaxSubtaskDepth {
				t.Fatalf("task %s nests deeper than %d", task.ID, cfg.Tasks.MaxSubtaskDepth)
			}
		}
	}
}

func TestPipelineDependenciesAcyclic(t *testing.T) {
	s := runPipeline(t, testConfig(t))

	taskProject := make(map[string]string, len(s.tasks))
	for _, task := range s.tasks {
		taskProject[task.ID] = task.ProjectID
	}
	seen := make(map[[2]string]bool)
	out := make(map[string][]string)
	indeg := make(map[string]int)
	for _, d := range s.deps {
		if d.DependentTaskID == d.DependencyTaskID {
			t.Fatalf("self dependency on task %s", d.DependentTaskID)
		}
		pair := [2]string{d.DependentTaskID, d.DependencyTaskID}
		if seen[pair] {
			t.Errorf("duplicate dependency %v", pair)
		}
		seen[pair] = true
		if taskProject[d.DependentTaskID] != taskProject[d.DependencyTaskID] {
			t.Errorf("dependency %s crosses projects", d.ID)
		}
		out[d.DependencyTaskID] = append(out[d.DependencyTaskID], d.DependentTaskID)
		indeg[d.DependentTaskID]++
	}

	// Kahn's algorithm over the dependency edges; leftovers mean a cycle.
	var queue []string
	for id := range taskProject {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range out[id] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if visited != len(taskProject) {
		t.Fatalf("dependency graph has a cycle: visited %d of %d tasks", visited, len(taskProject))
	}
}

func TestPipelineCustomFieldValues(t *testing.T) {
	s := runPipeline(t, testConfig(t))

	defByID := make(map[string]domain.CustomFieldDefinition, len(s.defs))
	for _, d := range s.defs {
		defByID[d.ID] = d
	}
	optionIDs := make(map[string]bool, len(s.options))
	for _, o := range s.options {
		optionIDs[o.ID] = true
	}
	taskProject := make(map[string]string, len(s.tasks))
	for _, task := range s.tasks {
		taskProject[task.ID] = task.ProjectID
	}

	seen := make(map[[2]string]bool)
	for _, v := range s.values {
		pair := [2]string{v.TaskID, v.FieldID}
		if seen[pair] {
			t.Errorf("duplicate value for task %s field %s", v.TaskID, v.FieldID)
		}
		seen[pair] = true

		def, ok := defByID[v.FieldID]
		if !ok {
			t.Errorf("value %s references unknown field", v.ID)
			continue
		}
		if taskProject[v.TaskID] != def.ProjectID {
			t.Errorf("value %s crosses projects", v.ID)
		}

		set := 0
		for _, isSet := range []bool{
			v.ValueText != nil, v.ValueNumber != nil, v.ValueDate != nil,
			v.ValueCheckbox != nil, v.ValueEnumOption != nil, v.ValueUserID != nil,
		} {
			if isSet {
				set++
			}
		}
		if set != 1 {
			t.Errorf("value %s sets %d channels, want exactly 1", v.ID, set)
			continue
		}
		want := map[string]bool{
			"text":     v.ValueText != nil,
			"number":   v.ValueNumber != nil,
			"date":     v.ValueDate != nil,
			"checkbox": v.ValueCheckbox != nil,
			"enum":     v.ValueEnumOption != nil,
			"user":     v.ValueUserID != nil,
		}
		if !want[def.FieldType] {
			t.Errorf("value %s channel does not match field type %s", v.ID, def.FieldType)
		}
		if v.ValueEnumOption != nil && !optionIDs[*v.ValueEnumOption] {
			t.Errorf("value %s references unknown enum option", v.ID)
		}
	}
}

func TestPipelineTaskTagUniqueness(t *testing.T) {
	s := runPipeline(t, testConfig(t))

	tagIDs := make(map[string]bool, len(s.tags))
	tagNames := make(map[string]bool, len(s.tags))
	for _, tag := range s.tags {
		if tagNames[tag.Name] {
			t.Errorf("duplicate tag name %q in organization", tag.Name)
		}
		tagNames[tag.Name] = true
		tagIDs[tag.ID] = true
	}
	seen := make(map[[2]string]bool)
	for _, tt := range s.taskTags {
		if !tagIDs[tt.TagID] {
			t.Errorf("task tag %s references unknown tag", tt.ID)
		}
		pair := [2]string{tt.TaskID, tt.TagID}
		if seen[pair] {
			t.Errorf("duplicate task tag %v", pair)
		}
		seen[pair] = true
	}
}

func TestPipelineCompletionRateShape(t *testing.T) {
	cfg := testConfig(t)
	cfg.Users.TargetCount = 30
	cfg.Tasks.Weeks = 8
	s := runPipeline(t, cfg)

	if len(s.tasks) < 500 {
		t.Fatalf("only %d tasks generated, sample too small", len(s.tasks))
	}
	completed := 0
	for _, task := range s.tasks {
		if task.Completed {
			completed++
		}
	}
	rate := float64(completed) / float64(len(s.tasks))
	// Young tasks near the window edge drag the raw benchmark rate down a
	// bit; the band is wide on purpose.
	if rate < 0.45 || rate > 0.90 {
		t.Errorf("completion rate %.3f outside plausible band", rate)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	cfg := testConfig(t)
	a := runPipeline(t, cfg)
	b := runPipeline(t, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs with the same config and seed diverged")
	}
}

func TestPipelineSeedChangesOutput(t *testing.T) {
	cfgA := testConfig(t)
	cfgB := testConfig(t)
	cfgB.Generation.Seed = 43
	a := runPipeline(t, cfgA)
	b := runPipeline(t, cfgB)
	if reflect.DeepEqual(a.tasks, b.tasks) {
		t.Fatal("different seeds produced identical tasks")
	}
}

func TestRegistryRejectsUnknownReference(t *testing.T) {
	cfg := testConfig(t)
	c, err := corpus.Load("")
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	p := NewPipeline(cfg, c, testLogger())
	id, err := p.reg.Mint(KindUser)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := p.reg.Require(id, KindUser); err != nil {
		t.Errorf("known reference rejected: %v", err)
	}
	if err := p.reg.Require(id, KindTeam); err == nil {
		t.Error("wrong-kind reference accepted")
	}
	if err := p.reg.Require("no-such-id", KindUser); err == nil {
		t.Error("unknown reference accepted")
	}
}

func TestPipelineZeroRetryBoundStillRuns(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.MaxResampleAttempts = 0
	s := runPipeline(t, cfg)
	if len(s.deps) != 0 {
		t.Errorf("retry bound 0 must skip all dependency draws, got %d", len(s.deps))
	}
	if len(s.tasks) == 0 {
		t.Error("pipeline produced no tasks with retry bound 0")
	}
}

func TestPipelineActiveRatioShape(t *testing.T) {
	cfg := testConfig(t)
	cfg.Users.TargetCount = 200
	cfg.Users.ActiveRatio = 0.9
	s := runPipeline(t, cfg)
	if len(s.users) != cfg.Users.TargetCount {
		t.Fatalf("got %d users, want %d", len(s.users), cfg.Users.TargetCount)
	}
	active := 0
	for _, u := range s.users {
		if u.IsActive {
			active++
		}
	}
	ratio := float64(active) / float64(len(s.users))
	if ratio < 0.8 || ratio > 0.98 {
		t.Errorf("active ratio %.3f outside tolerance of target %.2f", ratio, cfg.Users.ActiveRatio)
	}
}

func TestPipelineTeamSizesWithinBenchmarkRange(t *testing.T) {
	cfg := testConfig(t)
	cfg.Users.TargetCount = 200
	cfg.Teams.PerHundredOverride = 10
	s := runPipeline(t, cfg)

	c, err := corpus.Load("")
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	r := c.Benchmarks.TeamStructure.AvgTeamSizeRange

	sizes := map[string]int{}
	for _, m := range s.memberships {
		sizes[m.TeamID]++
	}
	for _, team := range s.teams {
		size := sizes[team.ID]
		if size < r[0] || size > r[1] {
			t.Errorf("team %s size %d outside [%d, %d]", team.Name, size, r[0], r[1])
		}
	}
}

func TestPipelineMemberlessTeamsGetNoProjects(t *testing.T) {
	cfg := testConfig(t)
	cfg.Users.TargetCount = 10
	cfg.Teams.PerHundredOverride = 500
	s := runPipeline(t, cfg)

	populated := map[string]bool{}
	for _, m := range s.memberships {
		populated[m.TeamID] = true
	}
	empty := 0
	for _, team := range s.teams {
		if !populated[team.ID] {
			empty++
		}
	}
	if empty == 0 {
		t.Fatal("override did not produce any memberless team")
	}
	for _, pr := range s.projects {
		if !populated[pr.TeamID] {
			t.Errorf("project %s belongs to memberless team %s", pr.Name, pr.TeamID)
		}
	}
	if len(s.projects) == 0 {
		t.Error("no projects generated for populated teams")
	}
}
