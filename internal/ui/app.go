// Package ui composes the sidebar, the active presentation view and the
// dialogs into the terminal application.
package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/home"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/ui/dialogs"
	"github.com/yousefammmar/zenith-flow/internal/ui/keys"
	"github.com/yousefammmar/zenith-flow/internal/ui/styles"
	"github.com/yousefammmar/zenith-flow/internal/ui/views"
)

// ViewKind is the presentation shown in the main area
type ViewKind int

const (
	ViewCalendar ViewKind = iota
	ViewBoard
	ViewList
	viewCount
)

var viewNames = []string{"Calendar", "Board", "List"}

func (k ViewKind) String() string {
	if k < 0 || k >= viewCount {
		return "Unknown"
	}
	return viewNames[k]
}

// ThemeSetting is the settings key the chosen theme is stored under
const ThemeSetting = "theme"

// Service is the action set the application drives
type Service interface {
	dialogs.ProjectCreator
	dialogs.TaskService
	DeleteProject(ctx context.Context, id string) actions.Result[actions.None]
}

// Loader loads the projects and tasks to show
type Loader interface {
	Load(ctx context.Context) home.Snapshot
}

// Settings persists small user preferences
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// presenter is what every presentation view offers the composer
type presenter interface {
	tea.Model
	SetTasks(tasks []models.TaskWithProject)
	SetSize(width, height int)
}

type snapshotMsg struct {
	snap home.Snapshot
}

type projectDeletedMsg struct {
	name string
	res  actions.Result[actions.None]
}

// Option configures the App
type Option func(*App)

// WithSettings stores the theme choice across runs
func WithSettings(s Settings) Option {
	return func(a *App) { a.settings = s }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithClock sets the clock "today" is read from
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithTheme selects the initial theme, "dark" or "light"
func WithTheme(name string) Option {
	return func(a *App) { a.theme = name }
}

// App is the main layout: sidebar, header, one presentation view and the dialogs
type App struct {
	svc      Service
	loader   Loader
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
	theme    string

	styles *styles.Styles
	keys   keys.KeyMap

	activeView ViewKind
	sidebar    *views.Sidebar
	calendar   *views.CalendarView
	board      *views.BoardView
	list       *views.ListView

	projectDialog *dialogs.ProjectDialog
	taskDialog    *dialogs.TaskDialog

	projects []models.Project
	tasks    []models.TaskWithProject
	loaded   bool

	// Delete project confirmation
	confirmingDelete bool
	deleteTarget     models.Project

	status    string
	statusErr bool

	// Help popup (shown with ?)
	showHelpPopup bool

	width  int
	height int
}

// NewApp creates the application. The calendar is shown first.
func NewApp(svc Service, loader Loader, opts ...Option) *App {
	a := &App{
		svc:    svc,
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		keys:   keys.DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(a)
	}

	styles.Use(a.theme)
	a.styles = styles.NewStyles()

	a.sidebar = views.NewSidebar(a.styles, viewNames)
	a.calendar = views.NewCalendarView(a.styles, a.now)
	a.board = views.NewBoardView(a.styles)
	a.list = views.NewListView(a.styles)
	a.projectDialog = dialogs.NewProjectDialog(svc, a.styles)
	a.taskDialog = dialogs.NewTaskDialog(svc, a.styles, time.Local)
	a.setView(ViewCalendar)
	return a
}

// ActiveView returns the presentation shown in the main area
func (a *App) ActiveView() ViewKind { return a.activeView }

// Projects returns the loaded projects
func (a *App) Projects() []models.Project { return a.projects }

// Tasks returns the loaded tasks
func (a *App) Tasks() []models.TaskWithProject { return a.tasks }

// Status returns the last status line message
func (a *App) Status() string { return a.status }

// Theme returns the active theme name
func (a *App) Theme() string { return styles.Current.Name }

func (a *App) Init() tea.Cmd {
	// A stored theme wins over the configured one
	if a.settings != nil {
		theme, err := a.settings.GetSetting(context.Background(), ThemeSetting)
		if err != nil {
			a.logger.Warn("failed to read theme setting", slog.Any("error", err))
		} else if theme != "" {
			a.applyTheme(theme)
		}
	}
	return a.load
}

func (a *App) load() tea.Msg {
	return snapshotMsg{snap: a.loader.Load(context.Background())}
}

func (a *App) applyTheme(name string) {
	styles.Use(name)
	// Views and dialogs share this pointer
	*a.styles = *styles.NewStyles()
}

func (a *App) presenter() presenter {
	switch a.activeView {
	case ViewBoard:
		return a.board
	case ViewList:
		return a.list
	}
	return a.calendar
}

func (a *App) setView(k ViewKind) {
	a.activeView = k
	a.sidebar.SetActive(int(k))
}

func (a *App) mainSize() (int, int) {
	width := styles.ContentWidth(a.width) - styles.SidebarWidth - 4
	// header, blank line and status bar
	height := a.height - 4
	return max(width, 20), max(height, 5)
}

func (a *App) resize() {
	w, h := a.mainSize()
	a.calendar.SetSize(w, h)
	a.board.SetSize(w, h)
	a.list.SetSize(w, h)
	a.sidebar.SetHeight(a.height)
	a.projectDialog.SetSize(a.width, a.height)
	a.taskDialog.SetSize(a.width, a.height)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case snapshotMsg:
		a.projects = msg.snap.Projects
		a.tasks = msg.snap.Tasks
		a.sidebar.SetProjects(a.projects)
		a.calendar.SetTasks(a.tasks)
		a.board.SetTasks(a.tasks)
		a.list.SetTasks(a.tasks)
		a.loaded = true
		return a, nil

	case dialogs.Saved:
		a.setStatus(msg.Message, false)
		return a, a.load

	case views.EditTask:
		return a, a.taskDialog.OpenEdit(msg.Task, a.projects)

	case projectDeletedMsg:
		if !msg.res.Success {
			a.setStatus(msg.res.Error, true)
			return a, nil
		}
		a.setStatus("Project "+msg.name+" deleted", false)
		return a, a.load

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Action results go back to the dialog that started them
	var cmds []tea.Cmd
	_, cmd := a.projectDialog.Update(msg)
	cmds = append(cmds, cmd)
	_, cmd = a.taskDialog.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.projectDialog.Active() {
		_, cmd := a.projectDialog.Update(msg)
		return a, cmd
	}
	if a.taskDialog.Active() {
		_, cmd := a.taskDialog.Update(msg)
		return a, cmd
	}

	// Handle help popup first - any key closes it
	if a.showHelpPopup {
		a.showHelpPopup = false
		return a, nil
	}

	if a.confirmingDelete {
		return a.updateConfirmDelete(msg)
	}

	if !a.loaded {
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Calendar):
		a.setView(ViewCalendar)
		return a, nil
	case key.Matches(msg, a.keys.Board):
		a.setView(ViewBoard)
		return a, nil
	case key.Matches(msg, a.keys.List):
		a.setView(ViewList)
		return a, nil
	case key.Matches(msg, a.keys.Tab):
		a.setView((a.activeView + 1) % viewCount)
		return a, nil
	case key.Matches(msg, a.keys.ShiftTab):
		a.setView((a.activeView + viewCount - 1) % viewCount)
		return a, nil

	case key.Matches(msg, a.keys.New):
		var due *time.Time
		if a.activeView == ViewCalendar {
			day := a.calendar.Selected()
			due = &day
		}
		return a, a.taskDialog.OpenCreate(a.projects, due)

	case key.Matches(msg, a.keys.NewProject):
		return a, a.projectDialog.Open()

	case key.Matches(msg, a.keys.Delete):
		if p, ok := a.sidebar.Selected(); ok {
			a.confirmingDelete = true
			a.deleteTarget = p
		}
		return a, nil

	case key.Matches(msg, a.keys.PrevProject):
		a.sidebar.Move(-1)
		return a, nil
	case key.Matches(msg, a.keys.NextProject):
		a.sidebar.Move(1)
		return a, nil

	case key.Matches(msg, a.keys.Theme):
		return a, a.toggleTheme()

	case key.Matches(msg, a.keys.Help):
		a.showHelpPopup = true
		return a, nil
	}

	_, cmd := a.presenter().Update(msg)
	return a, cmd
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.confirmingDelete = false
		svc, target := a.svc, a.deleteTarget
		return a, func() tea.Msg {
			return projectDeletedMsg{
				name: target.Name,
				res:  svc.DeleteProject(context.Background(), target.ID),
			}
		}
	case key.Matches(msg, a.keys.Cancel):
		a.confirmingDelete = false
	}
	return a, nil
}

func (a *App) toggleTheme() tea.Cmd {
	theme := styles.Toggle()
	*a.styles = *styles.NewStyles()
	if a.settings == nil {
		return nil
	}
	settings, logger := a.settings, a.logger
	return func() tea.Msg {
		if err := settings.SetSetting(context.Background(), ThemeSetting, theme.Name); err != nil {
			logger.Warn("failed to save theme setting", slog.Any("error", err))
		}
		return nil
	}
}

func (a *App) View() string {
	if a.projectDialog.Active() {
		return styles.CenterView(a.projectDialog.View(), a.width, a.height)
	}
	if a.taskDialog.Active() {
		return styles.CenterView(a.taskDialog.View(), a.width, a.height)
	}
	if a.showHelpPopup {
		return a.renderHelpPopup()
	}
	if a.confirmingDelete {
		return a.renderDeleteConfirm()
	}
	if !a.loaded {
		return a.styles.TitleMuted.Render("Loading...")
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		"",
		a.presenter().View(),
		a.renderStatusBar(),
	)
	content := lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), " ", main)
	return a.styles.App.Render(styles.CenterView(content, a.width, a.height))
}

func (a *App) renderHeader() string {
	s := a.styles
	title := s.TitleBar.Render(a.activeView.String() + " View")
	hint := fmt.Sprintf("%s theme  %s New Task",
		s.HelpKey.Render("T"),
		s.ButtonPrimary.Render("n"),
	)
	w, _ := a.mainSize()
	gap := max(1, w-lipgloss.Width(title)-lipgloss.Width(hint))
	return title + strings.Repeat(" ", gap) + hint
}

func (a *App) renderStatusBar() string {
	s := a.styles
	if a.status != "" {
		if a.statusErr {
			return s.StatusError.Render(a.status)
		}
		return s.StatusBar.Render(a.status)
	}
	return s.StatusBar.Render(fmt.Sprintf("%d projects • %d tasks • %s help",
		len(a.projects), len(a.tasks), s.HelpKey.Render("?")))
}

func (a *App) renderHelpPopup() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	helpItems := []string{
		s.HelpKey.Render("1 2 3") + "  calendar / board / list",
		s.HelpKey.Render("tab") + "    next view",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("p") + "      new project",
		s.HelpKey.Render("[ ]") + "    select project",
		s.HelpKey.Render("D") + "      delete project",
		s.HelpKey.Render("T") + "      toggle theme",
		s.HelpKey.Render("↵") + "      edit task",
		s.HelpKey.Render("h l t") + "  calendar month / today",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		s.Dialog.Render(content),
	)
	return styles.CenterView(centered, a.width, a.height)
}

func (a *App) renderDeleteConfirm() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Are you sure you want to delete %q?", a.deleteTarget.Name)),
		s.TitleMuted.Render("Its tasks are kept without a project."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, a.width, a.height)
}
