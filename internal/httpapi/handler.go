// Package httpapi exposes the actions over HTTP as JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/home"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"github.com/yousefammmar/zenith-flow/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/yousefammmar/zenith-flow/internal/httpapi")

// Service is the action set the handler calls
type Service interface {
	CreateProject(ctx context.Context, in schema.ProjectInput) actions.Result[models.Project]
	GetProjects(ctx context.Context) actions.Result[[]models.Project]
	DeleteProject(ctx context.Context, id string) actions.Result[actions.None]
	CreateTask(ctx context.Context, in schema.TaskInput) actions.Result[models.Task]
	GetTask(ctx context.Context, id string) actions.Result[models.Task]
	UpdateTask(ctx context.Context, id string, p schema.TaskPatch) actions.Result[models.Task]
	DeleteTask(ctx context.Context, id string) actions.Result[actions.None]
	GetTasks(ctx context.Context) actions.Result[[]models.TaskWithProject]
}

// HomeLoader loads the main screen snapshot
type HomeLoader interface {
	Load(ctx context.Context) home.Snapshot
}

// Handler handles HTTP requests for projects and tasks.
type Handler struct {
	svc     Service
	home    HomeLoader
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewHandler creates a new Handler. metrics may be nil.
func NewHandler(svc Service, loader HomeLoader, logger *slog.Logger, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		svc:     svc,
		home:    loader,
		logger:  logger,
		metrics: metrics,
	}
}

// Routes returns the chi router with the API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/home", h.Home)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Delete("/{id}", h.DeleteProject)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Patch("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})

	return r
}

// Home returns the projects and tasks the main screen shows.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.Home")
	defer span.End()
	start := time.Now()

	snap := h.home.Load(ctx)
	span.SetAttributes(
		attribute.Int("project.count", len(snap.Projects)),
		attribute.Int("task.count", len(snap.Tasks)),
	)

	h.respondJSON(w, http.StatusOK, snap)
	h.metrics.RecordRequest(ctx, "GET", "/api/v1/home", http.StatusOK, start)
}

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.ListProjects")
	defer span.End()
	start := time.Now()

	res := h.svc.GetProjects(ctx)
	if res.Success {
		h.logger.InfoContext(ctx, "projects listed", slog.Int("count", len(res.Data)))
	}
	respond(ctx, h, w, "GET", "/api/v1/projects", start, res, http.StatusOK)
}

// CreateProject adds a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.CreateProject")
	defer span.End()
	start := time.Now()

	var in schema.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.badBody(ctx, w, "POST", "/api/v1/projects", start, err)
		return
	}

	res := h.svc.CreateProject(ctx, in)
	if res.Success {
		span.SetAttributes(attribute.String("project.id", res.Data.ID))
		h.logger.InfoContext(ctx, "project created", slog.String("id", res.Data.ID))
	}
	respond(ctx, h, w, "POST", "/api/v1/projects", start, res, http.StatusCreated)
}

// DeleteProject removes a project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "Handler.DeleteProject",
		trace.WithAttributes(attribute.String("project.id", id)),
	)
	defer span.End()
	start := time.Now()

	res := h.svc.DeleteProject(ctx, id)
	if res.Success {
		h.logger.InfoContext(ctx, "project deleted", slog.String("id", id))
	}
	respond(ctx, h, w, "DELETE", "/api/v1/projects/{id}", start, res, http.StatusOK)
}

// ListTasks returns all tasks with their projects.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.ListTasks")
	defer span.End()
	start := time.Now()

	res := h.svc.GetTasks(ctx)
	if res.Success {
		span.SetAttributes(attribute.Int("task.count", len(res.Data)))
		h.logger.InfoContext(ctx, "tasks listed", slog.Int("count", len(res.Data)))
	}
	respond(ctx, h, w, "GET", "/api/v1/tasks", start, res, http.StatusOK)
}

// CreateTask adds a new task.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.CreateTask")
	defer span.End()
	start := time.Now()

	var in schema.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.badBody(ctx, w, "POST", "/api/v1/tasks", start, err)
		return
	}

	res := h.svc.CreateTask(ctx, in)
	if res.Success {
		span.SetAttributes(attribute.String("task.id", res.Data.ID))
		h.logger.InfoContext(ctx, "task created", slog.String("id", res.Data.ID))
	}
	respond(ctx, h, w, "POST", "/api/v1/tasks", start, res, http.StatusCreated)
}

// GetTask returns a task by ID.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "Handler.GetTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	res := h.svc.GetTask(ctx, id)
	respond(ctx, h, w, "GET", "/api/v1/tasks/{id}", start, res, http.StatusOK)
}

// UpdateTask modifies the fields present in the request body.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "Handler.UpdateTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	var p schema.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.badBody(ctx, w, "PATCH", "/api/v1/tasks/{id}", start, err)
		return
	}

	res := h.svc.UpdateTask(ctx, id, p)
	if res.Success {
		h.logger.InfoContext(ctx, "task updated", slog.String("id", id))
	}
	respond(ctx, h, w, "PATCH", "/api/v1/tasks/{id}", start, res, http.StatusOK)
}

// DeleteTask removes a task.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "Handler.DeleteTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	res := h.svc.DeleteTask(ctx, id)
	if res.Success {
		h.logger.InfoContext(ctx, "task deleted", slog.String("id", id))
	}
	respond(ctx, h, w, "DELETE", "/api/v1/tasks/{id}", start, res, http.StatusOK)
}

// Health returns a health check response.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) badBody(ctx context.Context, w http.ResponseWriter, method, route string, start time.Time, err error) {
	h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
	res := actions.Result[actions.None]{
		Error:   "invalid request body",
		Failure: &actions.Failure{Kind: actions.ValidationFailed, Cause: err},
	}
	h.respondJSON(w, http.StatusBadRequest, res)
	h.metrics.RecordRequest(ctx, method, route, http.StatusBadRequest, start)
}

// respond writes an action result with the status code its outcome maps to
func respond[T any](ctx context.Context, h *Handler, w http.ResponseWriter, method, route string, start time.Time, res actions.Result[T], success int) {
	status := StatusFor(res, success)
	if status >= http.StatusBadRequest {
		h.logger.WarnContext(ctx, "request failed",
			slog.String("route", route),
			slog.Int("status", status),
			slog.String("error", res.Error),
		)
	}
	h.respondJSON(w, status, res)
	h.metrics.RecordRequest(ctx, method, route, status, start)
}

// StatusFor maps an action result onto an HTTP status code
func StatusFor[T any](res actions.Result[T], success int) int {
	switch {
	case res.Success:
		return success
	case res.Failure != nil && res.Failure.Kind == actions.ValidationFailed:
		return http.StatusBadRequest
	case res.Failure.NotFound():
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
