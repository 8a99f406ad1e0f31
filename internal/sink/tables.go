package sink

import (
	"context"

	"workseed/internal/domain"
)

func (w *Writer) WriteOrganizations(ctx context.Context, rows []domain.Organization) error {
	return w.insert(ctx, "organizations",
		[]string{"organization_id", "name", "domain", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.Name, r.Domain, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteUsers(ctx context.Context, rows []domain.User) error {
	return w.insert(ctx, "users",
		[]string{"user_id", "organization_id", "email", "name", "role", "department",
			"job_title", "is_active", "workload_capacity", "created_at", "last_active_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.OrganizationID, r.Email, r.Name, r.Role, r.Department,
				r.JobTitle, boolInt(r.IsActive), r.WorkloadCapacity, ts(r.CreatedAt), tsp(r.LastActiveAt)}
		})
}

func (w *Writer) WriteTeams(ctx context.Context, rows []domain.Team) error {
	return w.insert(ctx, "teams",
		[]string{"team_id", "organization_id", "name", "team_type", "description", "privacy", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.OrganizationID, r.Name, r.TeamType, r.Description, r.Privacy, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteMemberships(ctx context.Context, rows []domain.TeamMembership) error {
	return w.insert(ctx, "team_memberships",
		[]string{"membership_id", "team_id", "user_id", "role", "joined_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.TeamID, r.UserID, r.Role, ts(r.JoinedAt)}
		})
}

func (w *Writer) WriteProjects(ctx context.Context, rows []domain.Project) error {
	return w.insert(ctx, "projects",
		[]string{"project_id", "organization_id", "team_id", "owner_id", "name", "description",
			"project_type", "privacy", "status", "color", "start_date", "due_date", "completed_at", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.OrganizationID, r.TeamID, r.OwnerID, r.Name, r.Description,
				r.ProjectType, r.Privacy, r.Status, r.Color, ts(r.StartDate), ts(r.DueDate),
				tsp(r.CompletedAt), ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteSections(ctx context.Context, rows []domain.Section) error {
	return w.insert(ctx, "sections",
		[]string{"section_id", "project_id", "name", "position", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.ProjectID, r.Name, r.Position, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteTags(ctx context.Context, rows []domain.Tag) error {
	return w.insert(ctx, "tags",
		[]string{"tag_id", "organization_id", "name", "color", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.OrganizationID, r.Name, r.Color, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteTasks(ctx context.Context, rows []domain.Task) error {
	return w.insert(ctx, "tasks",
		[]string{"task_id", "project_id", "section_id", "parent_task_id", "name", "description",
			"assignee_id", "created_by", "priority", "due_date", "start_date",
			"completed", "completed_at", "created_at", "modified_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.ProjectID, strp(r.SectionID), strp(r.ParentTaskID), r.Name, r.Description,
				r.AssigneeID, r.CreatedBy, r.Priority, tsp(r.DueDate), tsp(r.StartDate),
				boolInt(r.Completed), tsp(r.CompletedAt), ts(r.CreatedAt), ts(r.ModifiedAt)}
		})
}

func (w *Writer) WriteDependencies(ctx context.Context, rows []domain.TaskDependency) error {
	return w.insert(ctx, "task_dependencies",
		[]string{"dependency_id", "dependent_task_id", "dependency_task_id", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.DependentTaskID, r.DependencyTaskID, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteComments(ctx context.Context, rows []domain.Comment) error {
	return w.insert(ctx, "comments",
		[]string{"comment_id", "task_id", "author_id", "text", "is_pinned", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.TaskID, r.AuthorID, r.Text, boolInt(r.IsPinned), ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteAttachments(ctx context.Context, rows []domain.Attachment) error {
	return w.insert(ctx, "attachments",
		[]string{"attachment_id", "task_id", "uploader_id", "filename", "content_type", "size_bytes", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.TaskID, r.UploaderID, r.Filename, r.ContentType, r.SizeBytes, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteTaskTags(ctx context.Context, rows []domain.TaskTag) error {
	return w.insert(ctx, "task_tags",
		[]string{"task_tag_id", "task_id", "tag_id", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.TaskID, r.TagID, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteFieldDefinitions(ctx context.Context, rows []domain.CustomFieldDefinition) error {
	return w.insert(ctx, "custom_field_definitions",
		[]string{"field_id", "project_id", "name", "field_type", "description",
			"is_required", "position", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.ProjectID, r.Name, r.FieldType, r.Description,
				boolInt(r.IsRequired), r.Position, ts(r.CreatedAt)}
		})
}

func (w *Writer) WriteEnumOptions(ctx context.Context, rows []domain.CustomFieldEnumOption) error {
	return w.insert(ctx, "custom_field_enum_options",
		[]string{"option_id", "field_id", "value", "color", "position"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.FieldID, r.Value, r.Color, r.Position}
		})
}

func (w *Writer) WriteFieldValues(ctx context.Context, rows []domain.CustomFieldValue) error {
	return w.insert(ctx, "custom_field_values",
		[]string{"value_id", "task_id", "field_id", "value_text", "value_number", "value_date",
			"value_checkbox", "value_enum_option_id", "value_user_id", "created_at"},
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ID, r.TaskID, r.FieldID, strp(r.ValueText), floatp(r.ValueNumber),
				tsp(r.ValueDate), boolp(r.ValueCheckbox), strp(r.ValueEnumOption),
				strp(r.ValueUserID), ts(r.CreatedAt)}
		})
}
