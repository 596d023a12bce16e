package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateProject creates a new project from a validated payload
func (db *DB) CreateProject(ctx context.Context, in schema.ProjectInput) (*models.Project, error) {
	ctx, span := tracer.Start(ctx, "DB.CreateProject",
		trace.WithAttributes(attribute.String("project.name", in.Name)),
	)
	defer span.End()

	p := &models.Project{
		ID:          db.newID(),
		Name:        in.Name,
		Color:       in.Color,
		Description: in.Description,
		CreatedAt:   db.timestamp(),
	}
	if p.Color == "" {
		p.Color = models.DefaultProjectColor
	}

	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO projects (id, name, color, description, created_at) VALUES (?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Color, p.Description, p.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("project.id", p.ID))
	return db.GetProject(ctx, p.ID)
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p := &models.Project{}
	err := db.QueryRowContext(ctx, db.rebind(`
		SELECT id, name, color, description, created_at
		FROM projects WHERE id = ?
	`), id).Scan(&p.ID, &p.Name, &p.Color, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns all projects, newest first
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	ctx, span := tracer.Start(ctx, "DB.ListProjects")
	defer span.End()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, color, description, created_at
		FROM projects ORDER BY created_at DESC
	`)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	span.SetAttributes(attribute.Int("project.count", len(projects)))
	return projects, rows.Err()
}

// DeleteProject deletes a project. Its tasks are kept with project_id set to NULL.
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DB.DeleteProject",
		trace.WithAttributes(attribute.String("project.id", id)),
	)
	defer span.End()

	res, err := db.ExecContext(ctx, db.rebind("DELETE FROM projects WHERE id = ?"), id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := affected(res); err != nil {
		span.SetAttributes(attribute.Bool("project.found", false))
		return err
	}
	return nil
}

// ProjectCount returns the number of projects
func (db *DB) ProjectCount(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}
