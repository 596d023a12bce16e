package actions

import (
	"context"

	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"go.opentelemetry.io/otel/attribute"
)

// CreateProject validates and stores a new project
func (a *Actions) CreateProject(ctx context.Context, in schema.ProjectInput) Result[models.Project] {
	ctx, span := a.start(ctx, "CreateProject")
	defer span.End()

	valid, err := schema.ValidateProject(in)
	if err != nil {
		return finish(ctx, a, span, "createProject", validationResult[models.Project](err))
	}

	project, err := a.gw.CreateProject(ctx, valid)
	if err != nil {
		return finish(ctx, a, span, "createProject", failed[models.Project]("Failed to create project", err))
	}

	span.SetAttributes(attribute.String("project.id", project.ID))
	a.revalidate()
	return finish(ctx, a, span, "createProject", ok(*project))
}

// GetProjects lists every project, newest first
func (a *Actions) GetProjects(ctx context.Context) Result[[]models.Project] {
	ctx, span := a.start(ctx, "GetProjects")
	defer span.End()

	projects, err := a.gw.ListProjects(ctx)
	if err != nil {
		return finish(ctx, a, span, "getProjects", failed[[]models.Project]("Failed to fetch projects", err))
	}
	return finish(ctx, a, span, "getProjects", ok(projects))
}

// DeleteProject removes a project; its tasks lose their project reference
func (a *Actions) DeleteProject(ctx context.Context, id string) Result[None] {
	ctx, span := a.start(ctx, "DeleteProject", attribute.String("project.id", id))
	defer span.End()

	if err := a.gw.DeleteProject(ctx, id); err != nil {
		return finish(ctx, a, span, "deleteProject", failed[None]("Failed to delete project", err))
	}

	a.revalidate()
	return finish(ctx, a, span, "deleteProject", ok(None{}))
}
