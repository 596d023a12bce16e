// Package home loads the data the main screen renders.
package home

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/cache"
	"github.com/yousefammmar/zenith-flow/internal/models"
)

// Snapshot is everything the main screen needs for one render
type Snapshot struct {
	Projects []models.Project         `json:"projects"`
	Tasks    []models.TaskWithProject `json:"tasks"`
}

// Source is the subset of actions the loader reads through
type Source interface {
	GetProjects(ctx context.Context) actions.Result[[]models.Project]
	GetTasks(ctx context.Context) actions.Result[[]models.TaskWithProject]
}

// Loader fetches a snapshot once and serves it from the listing cache until a
// mutation revalidates the page.
type Loader struct {
	src    Source
	cache  *cache.Listing[Snapshot]
	logger *slog.Logger
}

// NewLoader creates a loader. logger may be nil.
func NewLoader(src Source, c *cache.Listing[Snapshot], logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{src: src, cache: c, logger: logger}
}

// Load returns the cached snapshot, or fetches projects and tasks
// concurrently. A failed fetch falls back to an empty collection.
func (l *Loader) Load(ctx context.Context) Snapshot {
	cached, gen, ok := l.cache.Lookup(actions.HomePath)
	if ok {
		return cached
	}

	var (
		wg       sync.WaitGroup
		projects actions.Result[[]models.Project]
		tasks    actions.Result[[]models.TaskWithProject]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		projects = l.src.GetProjects(ctx)
	}()
	go func() {
		defer wg.Done()
		tasks = l.src.GetTasks(ctx)
	}()
	wg.Wait()

	snap := Snapshot{Projects: []models.Project{}, Tasks: []models.TaskWithProject{}}
	complete := true
	if projects.Success && projects.Data != nil {
		snap.Projects = projects.Data
	} else if !projects.Success {
		complete = false
		l.logger.WarnContext(ctx, "showing no projects", slog.String("error", projects.Error))
	}
	if tasks.Success && tasks.Data != nil {
		snap.Tasks = tasks.Data
	} else if !tasks.Success {
		complete = false
		l.logger.WarnContext(ctx, "showing no tasks", slog.String("error", tasks.Error))
	}

	// A partial snapshot is served once and not cached, so the next load retries.
	// A mutation that landed during the fetch leaves the cache empty.
	if complete && !l.cache.SetIfUnchanged(actions.HomePath, snap, gen) {
		l.logger.DebugContext(ctx, "snapshot revalidated during load, not caching")
	}
	return snap
}
