// Package validate runs consistency checks against a populated database:
// SQLite's foreign_key_check plus row-level queries over the invariants the
// generator promises.
package validate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"workseed/internal/errs"
)

// Finding is one failed check and the number of offending rows.
type Finding struct {
	Check string `json:"check"`
	Rows  int    `json:"rows"`
}

type check struct {
	name  string
	query string
}

var checks = []check{
	{"completed tasks missing completed_at",
		`SELECT COUNT(*) FROM tasks WHERE completed = 1 AND completed_at IS NULL`},
	{"open tasks carrying completed_at",
		`SELECT COUNT(*) FROM tasks WHERE completed = 0 AND completed_at IS NOT NULL`},
	{"tasks completed before creation",
		`SELECT COUNT(*) FROM tasks WHERE completed_at IS NOT NULL AND completed_at < created_at`},
	{"tasks due before start",
		`SELECT COUNT(*) FROM tasks
		 WHERE due_date IS NOT NULL AND start_date IS NOT NULL AND due_date < start_date`},
	{"projects due before start",
		`SELECT COUNT(*) FROM projects WHERE due_date < start_date`},
	{"subtasks outside parent project",
		`SELECT COUNT(*) FROM tasks t JOIN tasks pt ON pt.task_id = t.parent_task_id
		 WHERE pt.project_id <> t.project_id`},
	{"cross-project dependency edges",
		`SELECT COUNT(*) FROM task_dependencies d
		 JOIN tasks a ON a.task_id = d.dependent_task_id
		 JOIN tasks b ON b.task_id = d.dependency_task_id
		 WHERE a.project_id <> b.project_id`},
	{"comments predating their task",
		`SELECT COUNT(*) FROM comments c JOIN tasks t ON t.task_id = c.task_id
		 WHERE c.created_at < t.created_at`},
	{"duplicate (team, user) membership pairs",
		`SELECT COUNT(*) FROM (SELECT 1 FROM team_memberships
		 GROUP BY team_id, user_id HAVING COUNT(*) > 1)`},
	{"duplicate (task, tag) pairs",
		`SELECT COUNT(*) FROM (SELECT 1 FROM task_tags
		 GROUP BY task_id, tag_id HAVING COUNT(*) > 1)`},
	{"duplicate (task, field) value pairs",
		`SELECT COUNT(*) FROM (SELECT 1 FROM custom_field_values
		 GROUP BY task_id, field_id HAVING COUNT(*) > 1)`},
	{"field values with channel count != 1",
		`SELECT COUNT(*) FROM custom_field_values
		 WHERE (value_text IS NOT NULL) + (value_number IS NOT NULL)
		     + (value_date IS NOT NULL) + (value_checkbox IS NOT NULL)
		     + (value_enum_option_id IS NOT NULL) + (value_user_id IS NOT NULL) <> 1`},
}

// Run executes every check and returns the findings. Empty means the
// dataset is consistent.
func Run(ctx context.Context, conn *sql.DB) ([]Finding, error) {
	var findings []Finding
	for _, c := range checks {
		var n int
		if err := conn.QueryRowContext(ctx, c.query).Scan(&n); err != nil {
			return nil, goerr.Wrap(err, "consistency check failed",
				goerr.T(errs.TagPersistence), goerr.V("check", c.name))
		}
		if n > 0 {
			findings = append(findings, Finding{Check: c.name, Rows: n})
		}
	}
	fk, err := danglingForeignKeys(ctx, conn)
	if err != nil {
		return nil, err
	}
	return append(findings, fk...), nil
}

func danglingForeignKeys(ctx context.Context, conn *sql.DB) ([]Finding, error) {
	rows, err := conn.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return nil, goerr.Wrap(err, "foreign_key_check failed", goerr.T(errs.TagPersistence))
	}
	defer rows.Close()

	perTable := map[string]int{}
	for rows.Next() {
		var tbl, parent string
		var rowid, fkid any
		if err := rows.Scan(&tbl, &rowid, &parent, &fkid); err != nil {
			return nil, goerr.Wrap(err, "foreign_key_check scan failed", goerr.T(errs.TagPersistence))
		}
		perTable[tbl]++
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "foreign_key_check failed", goerr.T(errs.TagPersistence))
	}

	tables := make([]string, 0, len(perTable))
	for t := range perTable {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	findings := make([]Finding, 0, len(tables))
	for _, t := range tables {
		findings = append(findings, Finding{
			Check: fmt.Sprintf("dangling foreign keys in %s", t),
			Rows:  perTable[t],
		})
	}
	return findings, nil
}
