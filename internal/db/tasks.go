package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.project_id,
	t.due_date, t.start_time, t.end_time, t.all_day, t.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// taskRow holds the nullable columns of a task until they are converted
type taskRow struct {
	task      models.Task
	projectID sql.NullString
	dueDate   sql.NullTime
	startTime sql.NullTime
	endTime   sql.NullTime
}

func (r *taskRow) dest() []any {
	t := &r.task
	return []any{&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &r.projectID,
		&r.dueDate, &r.startTime, &r.endTime, &t.AllDay, &t.CreatedAt}
}

func (r *taskRow) value() models.Task {
	t := r.task
	t.ProjectID = stringPtr(r.projectID)
	t.DueDate = timePtr(r.dueDate)
	t.StartTime = timePtr(r.startTime)
	t.EndTime = timePtr(r.endTime)
	return t
}

func scanTask(s rowScanner) (*models.Task, error) {
	var r taskRow
	if err := s.Scan(r.dest()...); err != nil {
		return nil, err
	}
	t := r.value()
	return &t, nil
}

// CreateTask creates a new task from a validated payload
func (db *DB) CreateTask(ctx context.Context, in schema.TaskInput) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "DB.CreateTask",
		trace.WithAttributes(attribute.String("task.title", in.Title)),
	)
	defer span.End()

	id := db.newID()
	var projectID any
	if in.ProjectID != "" {
		projectID = in.ProjectID
	}

	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO tasks (id, title, description, status, priority, project_id,
			due_date, start_time, end_time, all_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, in.Title, in.Description, string(in.Status), string(in.Priority), projectID,
		utcPtr(in.DueDate), utcPtr(in.StartTime), utcPtr(in.EndTime), in.AllDay, db.timestamp())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("task.id", id))
	return db.GetTask(ctx, id)
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := db.QueryRowContext(ctx, db.rebind("SELECT "+taskColumns+" FROM tasks t WHERE t.id = ?"), id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTasks returns every task joined with its project, newest first
func (db *DB) ListTasks(ctx context.Context) ([]models.TaskWithProject, error) {
	ctx, span := tracer.Start(ctx, "DB.ListTasks")
	defer span.End()

	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`,
			p.id, p.name, p.color, p.description, p.created_at
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		ORDER BY t.created_at DESC
	`)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rows.Close()

	tasks := []models.TaskWithProject{}
	for rows.Next() {
		var (
			r                  taskRow
			pID, pName, pColor sql.NullString
			pDescription       sql.NullString
			pCreatedAt         sql.NullTime
		)
		dest := append(r.dest(), &pID, &pName, &pColor, &pDescription, &pCreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		item := models.TaskWithProject{Task: r.value()}
		if pID.Valid {
			item.Project = &models.Project{
				ID:          pID.String,
				Name:        pName.String,
				Color:       pColor.String,
				Description: pDescription.String,
				CreatedAt:   pCreatedAt.Time,
			}
		}
		tasks = append(tasks, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// UpdateTask writes only the fields present in the patch
func (db *DB) UpdateTask(ctx context.Context, id string, p schema.TaskPatch) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "DB.UpdateTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.Priority != nil {
		set("priority", string(*p.Priority))
	}
	if p.ProjectID.Set {
		if p.ProjectID.Value == nil {
			set("project_id", nil)
		} else {
			set("project_id", *p.ProjectID.Value)
		}
	}
	if p.DueDate.Set {
		set("due_date", utcPtr(p.DueDate.Value))
	}
	if p.StartTime.Set {
		set("start_time", utcPtr(p.StartTime.Value))
	}
	if p.EndTime.Set {
		set("end_time", utcPtr(p.EndTime.Value))
	}
	if p.AllDay != nil {
		set("all_day", *p.AllDay)
	}

	if len(sets) == 0 {
		return db.GetTask(ctx, id)
	}

	span.SetAttributes(attribute.Int("task.changed_fields", len(sets)))
	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := db.ExecContext(ctx, db.rebind(query), args...)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := affected(res); err != nil {
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, err
	}
	return db.GetTask(ctx, id)
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DB.DeleteTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	res, err := db.ExecContext(ctx, db.rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := affected(res); err != nil {
		span.SetAttributes(attribute.Bool("task.found", false))
		return err
	}
	return nil
}

// TaskCount returns the number of tasks
func (db *DB) TaskCount(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	return count, err
}
