// Package actions implements the validated operations the presentation
// layer calls. Each action validates its payload, performs exactly one
// gateway call, revalidates the listing page after a successful mutation and
// reports the outcome as a Result.
package actions

import (
	"context"
	"io"
	"log/slog"

	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"github.com/yousefammmar/zenith-flow/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/yousefammmar/zenith-flow/internal/actions")

// HomePath is the listing page every mutation revalidates
const HomePath = "/"

// Gateway is the persistence layer the actions drive
type Gateway interface {
	CreateProject(ctx context.Context, in schema.ProjectInput) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CreateTask(ctx context.Context, in schema.TaskInput) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, p schema.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]models.TaskWithProject, error)
}

// Revalidator drops cached renderings of a page
type Revalidator interface {
	Revalidate(path string)
}

// Actions exposes every operation on projects and tasks
type Actions struct {
	gw          Gateway
	revalidator Revalidator
	logger      *slog.Logger
	metrics     *telemetry.Metrics
}

// Option configures Actions
type Option func(*Actions)

// WithRevalidator sets the cache invalidated after successful mutations
func WithRevalidator(r Revalidator) Option {
	return func(a *Actions) { a.revalidator = r }
}

// WithLogger sets the logger persistence failures are reported to
func WithLogger(l *slog.Logger) Option {
	return func(a *Actions) { a.logger = l }
}

// WithMetrics sets the instruments action outcomes are counted in
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *Actions) { a.metrics = m }
}

// New creates the action set over a gateway
func New(gw Gateway, opts ...Option) *Actions {
	a := &Actions{
		gw:     gw,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actions) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Actions."+name, trace.WithAttributes(attrs...))
}

func (a *Actions) revalidate() {
	if a.revalidator != nil {
		a.revalidator.Revalidate(HomePath)
	}
}

// finish records the outcome of an action on its span, the logs and the metrics
func finish[T any](ctx context.Context, a *Actions, span trace.Span, name string, r Result[T]) Result[T] {
	outcome := "success"
	if !r.Success {
		outcome = string(r.Failure.Kind)
		span.SetStatus(codes.Error, r.Error)
		switch r.Failure.Kind {
		case ValidationFailed:
			a.logger.WarnContext(ctx, "validation failed",
				slog.String("action", name),
				slog.String("error", r.Error),
			)
		case PersistenceFailed:
			span.RecordError(r.Failure.Cause)
			a.logger.ErrorContext(ctx, r.Error,
				slog.String("action", name),
				slog.Any("error", r.Failure.Cause),
			)
		}
	}
	a.metrics.RecordAction(ctx, name, outcome)
	return r
}

func validationResult[T any](err error) Result[T] {
	fields := map[string]string{}
	if fe, ok := schema.AsFieldErrors(err); ok {
		fields = fe.Map()
	}
	return invalid[T](err.Error(), fields, err)
}
