package gen

import (
	"fmt"
	"strings"
	"time"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

// taskState keeps the row plus what the dependency and satellite phases
// need: the creation-order rank inside its project and the lifecycle end.
type taskState struct {
	row     domain.Task
	project *projectState
	rank    int
	// activeUntil bounds comment and attachment timestamps: completion
	// time for finished tasks, "now" otherwise.
	activeUntil time.Time
}

var subtaskCountWeights = []float64{0.55, 0.30, 0.15}

// genTasks runs the hierarchy pass: per project, top-level tasks sized by
// the owning team's workload targets, then subtasks down to the configured
// depth. Completion outcome is decided at creation and every timestamp is
// derived from it.
func (p *Pipeline) genTasks(projects []*projectState, teams []*teamState) ([]*taskState, error) {
	projectsPerTeam := make(map[string]int, len(teams))
	for _, pr := range projects {
		projectsPerTeam[pr.team.row.ID]++
	}

	var tasks []*taskState
	for _, pr := range projects {
		weekly := 0
		for _, m := range pr.team.members {
			weekly += m.weeklyCreated
		}
		count := weekly * p.cfg.Tasks.Weeks / projectsPerTeam[pr.team.row.ID]
		if count < 1 {
			count = 1
		}

		rank := 0
		for i := 0; i < count; i++ {
			task, err := p.genTask(pr, nil, &rank)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)

			children, err := p.genSubtasks(pr, task, 1, &rank)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, children...)
		}
	}
	return tasks, nil
}

func (p *Pipeline) genSubtasks(pr *projectState, parent *taskState, depth int, rank *int) ([]*taskState, error) {
	if depth > p.cfg.Tasks.MaxSubtaskDepth || p.cfg.Tasks.SubtasksPerParentMax == 0 {
		return nil, nil
	}
	if p.rng.Float64() >= 0.25 {
		return nil, nil
	}
	n := 1 + dist.WeightedIndex(p.rng, subtaskCountWeights)
	if n > p.cfg.Tasks.SubtasksPerParentMax {
		n = p.cfg.Tasks.SubtasksPerParentMax
	}

	var out []*taskState
	for i := 0; i < n; i++ {
		child, err := p.genTask(pr, parent, rank)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
		grandchildren, err := p.genSubtasks(pr, child, depth+1, rank)
		if err != nil {
			return nil, err
		}
		out = append(out, grandchildren...)
	}
	return out, nil
}

// genTask creates one task, either top-level or under parent. Subtasks are
// created no earlier than their parent and due no later than it.
func (p *Pipeline) genTask(pr *projectState, parent *taskState, rank *int) (*taskState, error) {
	id, err := p.reg.Mint(KindTask)
	if err != nil {
		return nil, err
	}

	winStart := pr.row.StartDate
	if parent != nil {
		winStart = parent.row.CreatedAt
	}
	created := p.eng.Time.CreatedWithin(winStart, pr.taskEnd)

	assignee := p.pickAssignee(pr.team)
	creator := assignee
	if p.rng.Float64() >= 0.70 {
		creator = dist.Pick(p.rng, pr.team.members)
	}
	if err := p.reg.Require(assignee.row.ID, KindUser); err != nil {
		return nil, err
	}
	if err := p.reg.Require(creator.row.ID, KindUser); err != nil {
		return nil, err
	}

	priority := p.eng.Completion.Priority()

	var dueDate *time.Time
	if p.eng.Due.HasDueDate(priority) {
		var parentDue *time.Time
		if parent != nil {
			parentDue = parent.row.DueDate
		}
		due := p.eng.Due.DueDate(created, parentDue)
		dueDate = &due
	}

	var startDate *time.Time
	if p.rng.Float64() < 0.40 {
		s := created.Add(time.Duration(dist.FloatBetween(p.rng, 0, 48)) * time.Hour)
		if dueDate != nil && s.After(*dueDate) {
			s = *dueDate
		}
		startDate = &s
	}

	ageDays := p.now.Sub(created).Hours() / 24
	overdue := dueDate != nil && dueDate.Before(p.now) && p.eng.Completion.Overdue()
	outcome := p.eng.Completion.Outcome(priority, ageDays, overdue, assignee.overloaded)

	completed := false
	var completedAt *time.Time
	modified := created
	activeUntil := p.now
	switch outcome {
	case dist.OutcomeCompleted:
		completed = true
		done := p.eng.Time.CompletionAt(created, p.now)
		completedAt = &done
		modified = done
		activeUntil = done
	case dist.OutcomeReopened:
		// finished once, then pushed back to open; the reopen is the last
		// modification and completed_at is cleared
		done := p.eng.Time.CompletionAt(created, p.now)
		reopen := done.Add(time.Duration(dist.FloatBetween(p.rng, 1, 14*24)) * time.Hour)
		if reopen.After(p.now) {
			reopen = p.now
		}
		modified = reopen
	default:
		if ageDays > 0 {
			modified = created.Add(
				time.Duration(dist.FloatBetween(p.rng, 0, ageDays*24)) * time.Hour)
		}
	}

	t := &taskState{
		row: domain.Task{
			ID:           id,
			ProjectID:    pr.row.ID,
			SectionID:    p.pickSection(pr, outcome),
			Name:         p.taskName(pr.row.ProjectType),
			Description:  p.taskDescription(pr),
			AssigneeID:   assignee.row.ID,
			CreatedBy:    creator.row.ID,
			Priority:     priority,
			DueDate:      dueDate,
			StartDate:    startDate,
			Completed:    completed,
			CompletedAt:  completedAt,
			CreatedAt:    created,
			ModifiedAt:   modified,
		},
		project:     pr,
		rank:        *rank,
		activeUntil: activeUntil,
	}
	*rank++
	if parent != nil {
		t.row.ParentTaskID = &parent.row.ID
	}
	return t, nil
}

// pickAssignee weights team members by their weekly intake, then lets the
// reassignment draw move the task to someone else entirely.
func (p *Pipeline) pickAssignee(team *teamState) *userState {
	weights := make([]float64, len(team.members))
	for i, m := range team.members {
		weights[i] = float64(m.weeklyCreated)
	}
	natural := team.members[dist.WeightedIndex(p.rng, weights)]
	if len(team.members) > 1 && p.eng.Workload.Reassign(natural.overloaded) {
		for {
			other := dist.Pick(p.rng, team.members)
			if other.row.ID != natural.row.ID {
				return other
			}
		}
	}
	return natural
}

// pickSection maps lifecycle to board position: finished tasks sit in the
// last column, open-but-touched ones mid-board, the rest in the first. A
// tenth of tasks stay sectionless.
func (p *Pipeline) pickSection(pr *projectState, outcome dist.Outcome) *string {
	if len(pr.sections) == 0 || p.rng.Float64() < 0.10 {
		return nil
	}
	var s domain.Section
	switch outcome {
	case dist.OutcomeCompleted:
		s = pr.sections[len(pr.sections)-1]
	case dist.OutcomeReopened, dist.OutcomeScopeChanged:
		s = pr.sections[len(pr.sections)/2]
	default:
		s = pr.sections[p.rng.Intn((len(pr.sections)+1)/2)]
	}
	return &s.ID
}

func (p *Pipeline) taskName(projectType string) string {
	pattern := dist.Pick(p.rng, p.c.TitlePatterns(projectType))
	n := strings.Count(pattern, "%s")
	args := make([]any, n)
	for i := range args {
		args[i] = dist.Pick(p.rng, p.c.TaskPlaceholders)
	}
	return fmt.Sprintf(pattern, args...)
}

func (p *Pipeline) taskDescription(pr *projectState) string {
	if p.rng.Float64() < 0.30 {
		return ""
	}
	return fmt.Sprintf("Part of %s. Coordinate with the %s team before closing.",
		pr.row.Name, strings.ToLower(pr.team.department))
}

func taskRows(tasks []*taskState) []domain.Task {
	rows := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		rows[i] = t.row
	}
	return rows
}
