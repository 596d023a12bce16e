package actions

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yousefammmar/zenith-flow/internal/cache"
	"github.com/yousefammmar/zenith-flow/internal/db"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
)

// MockGateway implements Gateway for tests
type MockGateway struct {
	CreateProjectFunc func(ctx context.Context, in schema.ProjectInput) (*models.Project, error)
	ListProjectsFunc  func(ctx context.Context) ([]models.Project, error)
	DeleteProjectFunc func(ctx context.Context, id string) error
	CreateTaskFunc    func(ctx context.Context, in schema.TaskInput) (*models.Task, error)
	GetTaskFunc       func(ctx context.Context, id string) (*models.Task, error)
	UpdateTaskFunc    func(ctx context.Context, id string, p schema.TaskPatch) (*models.Task, error)
	DeleteTaskFunc    func(ctx context.Context, id string) error
	ListTasksFunc     func(ctx context.Context) ([]models.TaskWithProject, error)

	calls int
}

func (m *MockGateway) CreateProject(ctx context.Context, in schema.ProjectInput) (*models.Project, error) {
	m.calls++
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, in)
	}
	return &models.Project{ID: "p1", Name: in.Name, Color: in.Color}, nil
}

func (m *MockGateway) ListProjects(ctx context.Context) ([]models.Project, error) {
	m.calls++
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx)
	}
	return []models.Project{}, nil
}

func (m *MockGateway) DeleteProject(ctx context.Context, id string) error {
	m.calls++
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, id)
	}
	return nil
}

func (m *MockGateway) CreateTask(ctx context.Context, in schema.TaskInput) (*models.Task, error) {
	m.calls++
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, in)
	}
	return &models.Task{ID: "t1", Title: in.Title, Status: in.Status, Priority: in.Priority}, nil
}

func (m *MockGateway) GetTask(ctx context.Context, id string) (*models.Task, error) {
	m.calls++
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, id)
	}
	return &models.Task{ID: id}, nil
}

func (m *MockGateway) UpdateTask(ctx context.Context, id string, p schema.TaskPatch) (*models.Task, error) {
	m.calls++
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, id, p)
	}
	t := &models.Task{ID: id}
	p.Apply(t)
	return t, nil
}

func (m *MockGateway) DeleteTask(ctx context.Context, id string) error {
	m.calls++
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, id)
	}
	return nil
}

func (m *MockGateway) ListTasks(ctx context.Context) ([]models.TaskWithProject, error) {
	m.calls++
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx)
	}
	return []models.TaskWithProject{}, nil
}

// countingRevalidator records revalidated paths
type countingRevalidator struct {
	paths []string
}

func (r *countingRevalidator) Revalidate(path string) {
	r.paths = append(r.paths, path)
}

var errBoom = errors.New("connection refused")

func TestCreateProject(t *testing.T) {
	tests := []struct {
		name            string
		in              schema.ProjectInput
		gatewayErr      error
		wantSuccess     bool
		wantKind        FailureKind
		wantError       string
		wantCalls       int
		wantRevalidated int
	}{
		{
			name:            "Given a valid project When creating Then it succeeds and revalidates",
			in:              schema.ProjectInput{Name: "Work"},
			wantSuccess:     true,
			wantCalls:       1,
			wantRevalidated: 1,
		},
		{
			name:      "Given an empty name When creating Then validation fails without a gateway call",
			in:        schema.ProjectInput{},
			wantKind:  ValidationFailed,
			wantError: "Name is required",
		},
		{
			name:       "Given a storage error When creating Then persistence fails",
			in:         schema.ProjectInput{Name: "Work"},
			gatewayErr: errBoom,
			wantKind:   PersistenceFailed,
			wantError:  "Failed to create project",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &MockGateway{}
			if tt.gatewayErr != nil {
				gw.CreateProjectFunc = func(context.Context, schema.ProjectInput) (*models.Project, error) {
					return nil, tt.gatewayErr
				}
			}
			rv := &countingRevalidator{}
			a := New(gw, WithRevalidator(rv))

			res := a.CreateProject(context.Background(), tt.in)

			if res.Success != tt.wantSuccess {
				t.Fatalf("Success = %v, want %v (error %q)", res.Success, tt.wantSuccess, res.Error)
			}
			if gw.calls != tt.wantCalls {
				t.Errorf("gateway calls = %d, want %d", gw.calls, tt.wantCalls)
			}
			if len(rv.paths) != tt.wantRevalidated {
				t.Errorf("revalidations = %v, want %d", rv.paths, tt.wantRevalidated)
			}
			if tt.wantSuccess {
				if res.Data.Color != models.DefaultProjectColor {
					t.Errorf("Color = %q, want default", res.Data.Color)
				}
				if rv.paths[0] != HomePath {
					t.Errorf("revalidated %q, want %q", rv.paths[0], HomePath)
				}
				return
			}
			if res.Failure == nil || res.Failure.Kind != tt.wantKind {
				t.Fatalf("Failure = %+v, want kind %s", res.Failure, tt.wantKind)
			}
			if !strings.Contains(res.Error, tt.wantError) {
				t.Errorf("Error = %q, want it to contain %q", res.Error, tt.wantError)
			}
			if tt.gatewayErr != nil && !errors.Is(res.Failure, tt.gatewayErr) {
				t.Errorf("Failure does not wrap the gateway error: %v", res.Failure)
			}
		})
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	var stored schema.TaskInput
	gw := &MockGateway{
		CreateTaskFunc: func(_ context.Context, in schema.TaskInput) (*models.Task, error) {
			stored = in
			return &models.Task{ID: "t1", Title: in.Title, Status: in.Status, Priority: in.Priority}, nil
		},
	}
	a := New(gw)

	res := a.CreateTask(context.Background(), schema.TaskInput{Title: "  Plan sprint  "})
	if !res.Success {
		t.Fatalf("CreateTask() failed: %s", res.Error)
	}
	if stored.Title != "Plan sprint" {
		t.Errorf("stored title = %q, want trimmed", stored.Title)
	}
	if stored.Status != models.StatusTodo || stored.Priority != models.PriorityMedium {
		t.Errorf("stored status/priority = %s/%s, want TODO/MEDIUM", stored.Status, stored.Priority)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	gw := &MockGateway{}
	rv := &countingRevalidator{}
	a := New(gw, WithRevalidator(rv))

	res := a.CreateTask(context.Background(), schema.TaskInput{Title: "x", Status: "WAITING"})
	if res.Success {
		t.Fatal("CreateTask() succeeded with an invalid status")
	}
	if res.Failure.Kind != ValidationFailed {
		t.Errorf("Kind = %s, want validation", res.Failure.Kind)
	}
	if res.Failure.Fields["status"] == "" {
		t.Errorf("Fields = %v, want a status entry", res.Failure.Fields)
	}
	if gw.calls != 0 || len(rv.paths) != 0 {
		t.Errorf("calls = %d, revalidations = %d; want none", gw.calls, len(rv.paths))
	}
}

func TestUpdateTask(t *testing.T) {
	t.Run("Given a valid patch When updating Then the patch reaches the gateway", func(t *testing.T) {
		var gotID string
		var gotPatch schema.TaskPatch
		gw := &MockGateway{
			UpdateTaskFunc: func(_ context.Context, id string, p schema.TaskPatch) (*models.Task, error) {
				gotID, gotPatch = id, p
				return &models.Task{ID: id, Status: *p.Status}, nil
			},
		}
		rv := &countingRevalidator{}
		a := New(gw, WithRevalidator(rv))

		status := models.StatusDone
		res := a.UpdateTask(context.Background(), "t9", schema.TaskPatch{Status: &status})
		if !res.Success {
			t.Fatalf("UpdateTask() failed: %s", res.Error)
		}
		if gotID != "t9" || gotPatch.Status == nil || *gotPatch.Status != models.StatusDone {
			t.Errorf("gateway got %q %+v", gotID, gotPatch)
		}
		if len(rv.paths) != 1 {
			t.Errorf("revalidations = %d, want 1", len(rv.paths))
		}
	})

	t.Run("Given a blank title When updating Then validation fails", func(t *testing.T) {
		gw := &MockGateway{}
		a := New(gw)
		blank := " "
		res := a.UpdateTask(context.Background(), "t9", schema.TaskPatch{Title: &blank})
		if res.Success || res.Failure.Kind != ValidationFailed {
			t.Fatalf("UpdateTask() = %+v, want validation failure", res)
		}
		if gw.calls != 0 {
			t.Errorf("gateway calls = %d, want 0", gw.calls)
		}
	})

	t.Run("Given a missing task When updating Then the failure is not found", func(t *testing.T) {
		gw := &MockGateway{
			UpdateTaskFunc: func(context.Context, string, schema.TaskPatch) (*models.Task, error) {
				return nil, db.ErrNotFound
			},
		}
		a := New(gw)
		title := "x"
		res := a.UpdateTask(context.Background(), "missing", schema.TaskPatch{Title: &title})
		if res.Success || res.Failure.Kind != PersistenceFailed || !res.Failure.NotFound() {
			t.Fatalf("UpdateTask() = %+v, want not-found persistence failure", res)
		}
		if res.Error != "Failed to update task" {
			t.Errorf("Error = %q", res.Error)
		}
	})

	t.Run("Given a stored start When the patch moves the end before it Then validation fails", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
		end := start.Add(time.Hour)
		updated := false
		gw := &MockGateway{
			GetTaskFunc: func(_ context.Context, id string) (*models.Task, error) {
				return &models.Task{ID: id, StartTime: &start, EndTime: &end}, nil
			},
			UpdateTaskFunc: func(_ context.Context, id string, _ schema.TaskPatch) (*models.Task, error) {
				updated = true
				return &models.Task{ID: id}, nil
			},
		}
		a := New(gw)

		res := a.UpdateTask(context.Background(), "t1", schema.TaskPatch{EndTime: schema.Set(start.Add(-time.Hour))})
		if res.Success || res.Failure.Kind != ValidationFailed {
			t.Fatalf("UpdateTask() = %+v, want validation failure", res)
		}
		if res.Failure.Fields["endTime"] == "" {
			t.Errorf("fields = %v, want endTime", res.Failure.Fields)
		}
		if updated {
			t.Error("invalid range reached the store")
		}
	})

	t.Run("Given a stored range When the patch clears the start Then the update proceeds", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
		end := start.Add(time.Hour)
		gw := &MockGateway{
			GetTaskFunc: func(_ context.Context, id string) (*models.Task, error) {
				return &models.Task{ID: id, StartTime: &start, EndTime: &end}, nil
			},
		}
		res := New(gw).UpdateTask(context.Background(), "t1", schema.TaskPatch{StartTime: schema.Null[time.Time]()})
		if !res.Success {
			t.Fatalf("UpdateTask() failed: %s", res.Error)
		}
	})

	t.Run("Given a missing task When patching times Then the failure is not found", func(t *testing.T) {
		gw := &MockGateway{
			GetTaskFunc: func(context.Context, string) (*models.Task, error) {
				return nil, db.ErrNotFound
			},
		}
		res := New(gw).UpdateTask(context.Background(), "missing", schema.TaskPatch{EndTime: schema.Set(time.Now())})
		if res.Success || !res.Failure.NotFound() {
			t.Fatalf("UpdateTask() = %+v, want not-found persistence failure", res)
		}
	})
}

func TestUpdateTaskTimesOverSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := db.New(ctx, db.Options{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "times.db"),
	})
	if err != nil {
		t.Fatalf("db.New() error: %v", err)
	}
	defer store.Close()
	a := New(store)

	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	created := a.CreateTask(ctx, schema.TaskInput{Title: "Standup", StartTime: &start, EndTime: &end})
	if !created.Success {
		t.Fatalf("CreateTask() failed: %s", created.Error)
	}

	res := a.UpdateTask(ctx, created.Data.ID, schema.TaskPatch{EndTime: schema.Set(start.Add(-time.Hour))})
	if res.Success || res.Failure.Kind != ValidationFailed {
		t.Fatalf("UpdateTask() = %+v, want validation failure", res)
	}

	stored := a.GetTask(ctx, created.Data.ID)
	if !stored.Success || stored.Data.EndTime == nil || !stored.Data.EndTime.Equal(end) {
		t.Errorf("stored end = %v, want %v", stored.Data.EndTime, end)
	}
}

func TestDeletes(t *testing.T) {
	tests := []struct {
		name      string
		run       func(a *Actions) Result[None]
		gw        *MockGateway
		wantOK    bool
		wantError string
	}{
		{
			name:   "Given an existing project When deleting Then it succeeds",
			run:    func(a *Actions) Result[None] { return a.DeleteProject(context.Background(), "p1") },
			gw:     &MockGateway{},
			wantOK: true,
		},
		{
			name: "Given a storage error When deleting a project Then it fails",
			run:  func(a *Actions) Result[None] { return a.DeleteProject(context.Background(), "p1") },
			gw: &MockGateway{DeleteProjectFunc: func(context.Context, string) error {
				return errBoom
			}},
			wantError: "Failed to delete project",
		},
		{
			name:   "Given an existing task When deleting Then it succeeds",
			run:    func(a *Actions) Result[None] { return a.DeleteTask(context.Background(), "t1") },
			gw:     &MockGateway{},
			wantOK: true,
		},
		{
			name: "Given a missing task When deleting Then it fails",
			run:  func(a *Actions) Result[None] { return a.DeleteTask(context.Background(), "t1") },
			gw: &MockGateway{DeleteTaskFunc: func(context.Context, string) error {
				return db.ErrNotFound
			}},
			wantError: "Failed to delete task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := &countingRevalidator{}
			res := tt.run(New(tt.gw, WithRevalidator(rv)))
			if res.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v", res.Success, tt.wantOK)
			}
			if tt.wantOK {
				if len(rv.paths) != 1 {
					t.Errorf("revalidations = %d, want 1", len(rv.paths))
				}
				return
			}
			if len(rv.paths) != 0 {
				t.Errorf("failed delete revalidated %v", rv.paths)
			}
			if res.Error != tt.wantError || res.Failure.Kind != PersistenceFailed {
				t.Errorf("result = %+v, want %q", res, tt.wantError)
			}
		})
	}
}

func TestReads(t *testing.T) {
	t.Run("Given stored projects When listing Then they are returned without revalidating", func(t *testing.T) {
		gw := &MockGateway{ListProjectsFunc: func(context.Context) ([]models.Project, error) {
			return []models.Project{{ID: "p2"}, {ID: "p1"}}, nil
		}}
		rv := &countingRevalidator{}
		res := New(gw, WithRevalidator(rv)).GetProjects(context.Background())
		if !res.Success || len(res.Data) != 2 {
			t.Fatalf("GetProjects() = %+v", res)
		}
		if len(rv.paths) != 0 {
			t.Errorf("read revalidated %v", rv.paths)
		}
	})

	t.Run("Given a storage error When listing tasks Then the fetch fails", func(t *testing.T) {
		gw := &MockGateway{ListTasksFunc: func(context.Context) ([]models.TaskWithProject, error) {
			return nil, errBoom
		}}
		res := New(gw).GetTasks(context.Background())
		if res.Success || res.Error != "Failed to fetch tasks" {
			t.Fatalf("GetTasks() = %+v", res)
		}
	})

	t.Run("Given a storage error When listing projects Then the fetch fails", func(t *testing.T) {
		gw := &MockGateway{ListProjectsFunc: func(context.Context) ([]models.Project, error) {
			return nil, errBoom
		}}
		res := New(gw).GetProjects(context.Background())
		if res.Success || res.Error != "Failed to fetch projects" {
			t.Fatalf("GetProjects() = %+v", res)
		}
	})

	t.Run("Given a missing task When fetching Then the failure is not found", func(t *testing.T) {
		gw := &MockGateway{GetTaskFunc: func(context.Context, string) (*models.Task, error) {
			return nil, db.ErrNotFound
		}}
		res := New(gw).GetTask(context.Background(), "x")
		if res.Success || !res.Failure.NotFound() {
			t.Fatalf("GetTask() = %+v", res)
		}
	})
}

func TestResultJSON(t *testing.T) {
	tests := []struct {
		name string
		got  any
		want string
	}{
		{
			name: "Given a success with data When encoding Then data is present",
			got:  ok(models.Project{ID: "p1", Name: "Work", Color: "#fff", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}),
			want: `{"success":true,"data":{"id":"p1","name":"Work","color":"#fff","createdAt":"2026-01-01T00:00:00Z"}}`,
		},
		{
			name: "Given a success without data When encoding Then data is omitted",
			got:  ok(None{}),
			want: `{"success":true}`,
		},
		{
			name: "Given a persistence failure When encoding Then the cause is hidden",
			got:  failed[None]("Failed to delete task", errBoom),
			want: `{"success":false,"error":"Failed to delete task","failure":{"kind":"persistence"}}`,
		},
		{
			name: "Given a validation failure When encoding Then the fields are listed",
			got:  invalid[None]("title: Title is required", map[string]string{"title": "Title is required"}, errBoom),
			want: `{"success":false,"error":"title: Title is required","failure":{"kind":"validation","fields":{"title":"Title is required"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.got)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal() = %s\nwant %s", b, tt.want)
			}
		})
	}
}

func TestFailureNotFoundNil(t *testing.T) {
	var f *Failure
	if f.NotFound() {
		t.Error("nil Failure reported not found")
	}
}

func TestActionsOverSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := db.New(ctx, db.Options{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "actions.db"),
	})
	if err != nil {
		t.Fatalf("db.New() error: %v", err)
	}
	defer store.Close()

	listing := cache.NewListing[string]()
	listing.Set(HomePath, "stale")
	a := New(store, WithRevalidator(listing))

	project := a.CreateProject(ctx, schema.ProjectInput{Name: "Launch", Color: "#10b981"})
	if !project.Success {
		t.Fatalf("CreateProject() failed: %s", project.Error)
	}
	if _, cached := listing.Get(HomePath); cached {
		t.Error("listing still cached after a mutation")
	}

	due := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	task := a.CreateTask(ctx, schema.TaskInput{Title: "Press kit", ProjectID: project.Data.ID, DueDate: &due})
	if !task.Success {
		t.Fatalf("CreateTask() failed: %s", task.Error)
	}

	tasks := a.GetTasks(ctx)
	if !tasks.Success || len(tasks.Data) != 1 || tasks.Data[0].Project == nil {
		t.Fatalf("GetTasks() = %+v", tasks)
	}
	if tasks.Data[0].Project.Name != "Launch" {
		t.Errorf("joined project = %q, want Launch", tasks.Data[0].Project.Name)
	}

	if res := a.DeleteProject(ctx, project.Data.ID); !res.Success {
		t.Fatalf("DeleteProject() failed: %s", res.Error)
	}
	tasks = a.GetTasks(ctx)
	if !tasks.Success || len(tasks.Data) != 1 || tasks.Data[0].Project != nil {
		t.Fatalf("GetTasks() after project delete = %+v, want the task kept without project", tasks)
	}

	if res := a.DeleteTask(ctx, task.Data.ID); !res.Success {
		t.Fatalf("DeleteTask() failed: %s", res.Error)
	}
	if res := a.DeleteTask(ctx, task.Data.ID); res.Success || !res.Failure.NotFound() {
		t.Errorf("second DeleteTask() = %+v, want not found", res)
	}
	if got := listing.Revalidations(HomePath); got != 4 {
		t.Errorf("Revalidations() = %d, want 4", got)
	}
}
