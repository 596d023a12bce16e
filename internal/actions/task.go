package actions

import (
	"context"

	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"go.opentelemetry.io/otel/attribute"
)

// CreateTask validates and stores a new task. Status and priority default
// to TODO and MEDIUM.
func (a *Actions) CreateTask(ctx context.Context, in schema.TaskInput) Result[models.Task] {
	ctx, span := a.start(ctx, "CreateTask")
	defer span.End()

	valid, err := schema.ValidateTask(in)
	if err != nil {
		return finish(ctx, a, span, "createTask", validationResult[models.Task](err))
	}

	task, err := a.gw.CreateTask(ctx, valid)
	if err != nil {
		return finish(ctx, a, span, "createTask", failed[models.Task]("Failed to create task", err))
	}

	span.SetAttributes(attribute.String("task.id", task.ID))
	a.revalidate()
	return finish(ctx, a, span, "createTask", ok(*task))
}

// GetTask returns a single task
func (a *Actions) GetTask(ctx context.Context, id string) Result[models.Task] {
	ctx, span := a.start(ctx, "GetTask", attribute.String("task.id", id))
	defer span.End()

	task, err := a.gw.GetTask(ctx, id)
	if err != nil {
		return finish(ctx, a, span, "getTask", failed[models.Task]("Failed to fetch task", err))
	}
	return finish(ctx, a, span, "getTask", ok(*task))
}

// UpdateTask applies the present fields of a patch to a task
func (a *Actions) UpdateTask(ctx context.Context, id string, p schema.TaskPatch) Result[models.Task] {
	ctx, span := a.start(ctx, "UpdateTask", attribute.String("task.id", id))
	defer span.End()

	valid, err := schema.ValidatePatch(p)
	if err != nil {
		return finish(ctx, a, span, "updateTask", validationResult[models.Task](err))
	}

	// The time range is checked against the stored task merged with the patch
	if valid.TouchesTimes() {
		current, err := a.gw.GetTask(ctx, id)
		if err != nil {
			return finish(ctx, a, span, "updateTask", failed[models.Task]("Failed to update task", err))
		}
		merged := *current
		valid.Apply(&merged)
		if err := schema.ValidateTimes(merged); err != nil {
			return finish(ctx, a, span, "updateTask", validationResult[models.Task](err))
		}
	}

	task, err := a.gw.UpdateTask(ctx, id, valid)
	if err != nil {
		return finish(ctx, a, span, "updateTask", failed[models.Task]("Failed to update task", err))
	}

	a.revalidate()
	return finish(ctx, a, span, "updateTask", ok(*task))
}

// DeleteTask removes a task
func (a *Actions) DeleteTask(ctx context.Context, id string) Result[None] {
	ctx, span := a.start(ctx, "DeleteTask", attribute.String("task.id", id))
	defer span.End()

	if err := a.gw.DeleteTask(ctx, id); err != nil {
		return finish(ctx, a, span, "deleteTask", failed[None]("Failed to delete task", err))
	}

	a.revalidate()
	return finish(ctx, a, span, "deleteTask", ok(None{}))
}

// GetTasks lists every task with its project, newest first
func (a *Actions) GetTasks(ctx context.Context) Result[[]models.TaskWithProject] {
	ctx, span := a.start(ctx, "GetTasks")
	defer span.End()

	tasks, err := a.gw.ListTasks(ctx)
	if err != nil {
		return finish(ctx, a, span, "getTasks", failed[[]models.TaskWithProject]("Failed to fetch tasks", err))
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return finish(ctx, a, span, "getTasks", ok(tasks))
}
