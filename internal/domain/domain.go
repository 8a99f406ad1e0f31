// Package domain holds the row types for the workspace schema. Every type
// maps 1:1 to a table; fields mirror the column order of the DDL.
package domain

import "time"

type Organization struct {
	ID        string
	Name      string
	Domain    string
	CreatedAt time.Time
}

type User struct {
	ID               string
	OrganizationID   string
	Email            string
	Name             string
	Role             string // member, admin, limited
	Department       string
	JobTitle         string
	IsActive         bool
	WorkloadCapacity float64
	CreatedAt        time.Time
	LastActiveAt     *time.Time
}

type Team struct {
	ID             string
	OrganizationID string
	Name           string
	TeamType       string
	Description    string
	Privacy        string // public, private, secret
	CreatedAt      time.Time
}

type TeamMembership struct {
	ID       string
	TeamID   string
	UserID   string
	Role     string // admin, member
	JoinedAt time.Time
}

type Project struct {
	ID             string
	OrganizationID string
	TeamID         string
	OwnerID        string
	Name           string
	Description    string
	ProjectType    string
	Privacy        string // team, public, private
	Status         string // active, completed, archived, on_hold
	Color          string
	StartDate      time.Time
	DueDate        time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

type Section struct {
	ID        string
	ProjectID string
	Name      string
	Position  int
	CreatedAt time.Time
}

type Task struct {
	ID           string
	ProjectID    string
	SectionID    *string
	ParentTaskID *string
	Name         string
	Description  string
	AssigneeID   string
	CreatedBy    string
	Priority     string // high, medium, low
	DueDate      *time.Time
	StartDate    *time.Time
	Completed    bool
	CompletedAt  *time.Time
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

type TaskDependency struct {
	ID               string
	DependentTaskID  string
	DependencyTaskID string
	CreatedAt        time.Time
}

type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Text      string
	IsPinned  bool
	CreatedAt time.Time
}

type Attachment struct {
	ID          string
	TaskID      string
	UploaderID  string
	Filename    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

type Tag struct {
	ID             string
	OrganizationID string
	Name           string
	Color          string
	CreatedAt      time.Time
}

type TaskTag struct {
	ID        string
	TaskID    string
	TagID     string
	CreatedAt time.Time
}

type CustomFieldDefinition struct {
	ID          string
	ProjectID   string
	Name        string
	FieldType   string // text, number, enum, date, checkbox, user
	Description string
	IsRequired  bool
	Position    int
	CreatedAt   time.Time
}

type CustomFieldEnumOption struct {
	ID       string
	FieldID  string
	Value    string
	Color    string
	Position int
}

// CustomFieldValue populates exactly one value channel, matching the
// declared type of its field.
type CustomFieldValue struct {
	ID              string
	TaskID          string
	FieldID         string
	ValueText       *string
	ValueNumber     *float64
	ValueDate       *time.Time
	ValueCheckbox   *bool
	ValueEnumOption *string
	ValueUserID     *string
	CreatedAt       time.Time
}
