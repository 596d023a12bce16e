package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
)

var baseTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

// newTestDB opens a sqlite database in a temp dir with a clock that advances
// one second per write and sequential ids
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tick := 0
	seq := 0
	db, err := New(context.Background(), Options{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
		Now: func() time.Time {
			tick++
			return baseTime.Add(time.Duration(tick) * time.Second)
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewUnsupportedDriver(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "Given an unknown driver When opening Then it fails", opts: Options{Driver: "mysql", DSN: "x"}},
		{name: "Given postgres without a dsn When opening Then it fails", opts: Options{Driver: DriverPostgres}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opts); err == nil {
				t.Error("New() expected error")
			}
		})
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			name:   "Given sqlite When rebinding Then the query is unchanged",
			driver: DriverSQLite,
			query:  "UPDATE tasks SET title = ? WHERE id = ?",
			want:   "UPDATE tasks SET title = ? WHERE id = ?",
		},
		{
			name:   "Given postgres When rebinding Then placeholders are numbered",
			driver: DriverPostgres,
			query:  "UPDATE tasks SET title = ?, status = ? WHERE id = ?",
			want:   "UPDATE tasks SET title = $1, status = $2 WHERE id = $3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &DB{driver: tt.driver}
			if got := db.rebind(tt.query); got != tt.want {
				t.Errorf("rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProjects(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	first, err := db.CreateProject(ctx, schema.ProjectInput{Name: "Work", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	if first.ID != "id-1" || first.Name != "Work" || first.Color != "#ff0000" {
		t.Errorf("CreateProject() = %+v", first)
	}

	second, err := db.CreateProject(ctx, schema.ProjectInput{Name: "Home"})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	if second.Color != models.DefaultProjectColor {
		t.Errorf("Color = %q, want default", second.Color)
	}

	projects, err := db.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if len(projects) != 2 || projects[0].ID != second.ID || projects[1].ID != first.ID {
		t.Errorf("ListProjects() = %+v, want newest first", projects)
	}

	count, err := db.ProjectCount(ctx)
	if err != nil || count != 2 {
		t.Errorf("ProjectCount() = %d, %v; want 2", count, err)
	}

	if err := db.DeleteProject(ctx, first.ID); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}
	if _, err := db.GetProject(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProject() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteProject(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProject() twice error = %v, want ErrNotFound", err)
	}
}

func TestListProjectsEmpty(t *testing.T) {
	db := newTestDB(t)
	projects, err := db.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Errorf("ListProjects() = %#v, want empty slice", projects)
	}
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	project, err := db.CreateProject(ctx, schema.ProjectInput{Name: "Work", Color: "#00ff00"})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}

	due := time.Date(2026, 2, 14, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	older, err := db.CreateTask(ctx, schema.TaskInput{
		Title:     "Write report",
		Status:    models.StatusTodo,
		Priority:  models.PriorityHigh,
		ProjectID: project.ID,
		DueDate:   &due,
		AllDay:    true,
	})
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if older.ProjectID == nil || *older.ProjectID != project.ID {
		t.Errorf("ProjectID = %v, want %s", older.ProjectID, project.ID)
	}
	if older.DueDate == nil || !older.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", older.DueDate, due)
	}
	if !older.AllDay {
		t.Error("AllDay = false, want true")
	}

	newer, err := db.CreateTask(ctx, schema.TaskInput{
		Title:    "Loose end",
		Status:   models.StatusInProgress,
		Priority: models.PriorityLow,
	})
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if newer.ProjectID != nil || newer.DueDate != nil {
		t.Errorf("CreateTask() without project = %+v", newer)
	}

	tasks, err := db.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("ListTasks() returned %d tasks, want 2", len(tasks))
	}
	if tasks[0].ID != newer.ID || tasks[1].ID != older.ID {
		t.Errorf("ListTasks() order = %s, %s; want newest first", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].Project != nil {
		t.Errorf("task without project joined %+v", tasks[0].Project)
	}
	if tasks[1].Project == nil || tasks[1].Project.Name != "Work" || tasks[1].ProjectColor() != "#00ff00" {
		t.Errorf("joined project = %+v", tasks[1].Project)
	}

	n, err := db.TaskCount(ctx)
	if err != nil || n != 2 {
		t.Errorf("TaskCount() = %d, %v; want 2", n, err)
	}
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	project, err := db.CreateProject(ctx, schema.ProjectInput{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task, err := db.CreateTask(ctx, schema.TaskInput{
		Title:     "Draft",
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		ProjectID: project.ID,
		DueDate:   &due,
	})
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}

	t.Run("Given a status patch When updating Then only status changes", func(t *testing.T) {
		status := models.StatusDone
		got, err := db.UpdateTask(ctx, task.ID, schema.TaskPatch{Status: &status})
		if err != nil {
			t.Fatalf("UpdateTask() error: %v", err)
		}
		if got.Status != models.StatusDone || got.Title != "Draft" {
			t.Errorf("UpdateTask() = %+v", got)
		}
		if got.ProjectID == nil || got.DueDate == nil {
			t.Error("absent nullable fields were cleared")
		}
	})

	t.Run("Given explicit nulls When updating Then project and due date are cleared", func(t *testing.T) {
		got, err := db.UpdateTask(ctx, task.ID, schema.TaskPatch{
			ProjectID: schema.Null[string](),
			DueDate:   schema.Null[time.Time](),
		})
		if err != nil {
			t.Fatalf("UpdateTask() error: %v", err)
		}
		if got.ProjectID != nil || got.DueDate != nil {
			t.Errorf("UpdateTask() = %+v, want cleared", got)
		}
	})

	t.Run("Given an empty patch When updating Then the task is returned unchanged", func(t *testing.T) {
		got, err := db.UpdateTask(ctx, task.ID, schema.TaskPatch{})
		if err != nil {
			t.Fatalf("UpdateTask() error: %v", err)
		}
		if got.ID != task.ID {
			t.Errorf("UpdateTask() = %+v", got)
		}
	})

	t.Run("Given a missing id When updating Then ErrNotFound is returned", func(t *testing.T) {
		title := "x"
		if _, err := db.UpdateTask(ctx, "missing", schema.TaskPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateTask() error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	task, err := db.CreateTask(ctx, schema.TaskInput{Title: "Gone", Status: models.StatusTodo, Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if err := db.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() error: %v", err)
	}
	if _, err := db.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask() error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask() twice error = %v, want ErrNotFound", err)
	}
}

func TestDeleteProjectKeepsTasks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	project, err := db.CreateProject(ctx, schema.ProjectInput{Name: "Temp"})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	task, err := db.CreateTask(ctx, schema.TaskInput{
		Title:     "Orphan",
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		ProjectID: project.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}

	if err := db.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}

	got, err := db.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask() error: %v", err)
	}
	if got.ProjectID != nil {
		t.Errorf("ProjectID = %q, want nil after project delete", *got.ProjectID)
	}
}

func TestCreateTaskUnknownProject(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CreateTask(context.Background(), schema.TaskInput{
		Title:     "x",
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		ProjectID: "missing",
	})
	if err == nil {
		t.Error("CreateTask() with unknown project expected a foreign key error")
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	got, err := db.GetSetting(ctx, "theme")
	if err != nil || got != "" {
		t.Fatalf("GetSetting() missing = %q, %v; want empty", got, err)
	}

	if err := db.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting() error: %v", err)
	}
	if err := db.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("SetSetting() overwrite error: %v", err)
	}

	got, err = db.GetSetting(ctx, "theme")
	if err != nil || got != "light" {
		t.Errorf("GetSetting() = %q, %v; want light", got, err)
	}
}

func TestDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(dir, "zenith"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if want := filepath.Join(dir, "zenith", "zenith.db"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}
