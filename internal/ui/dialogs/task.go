package dialogs

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/layout"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"github.com/yousefammmar/zenith-flow/internal/ui/keys"
	"github.com/yousefammmar/zenith-flow/internal/ui/styles"
)

// TaskService creates, updates and deletes tasks
type TaskService interface {
	CreateTask(ctx context.Context, in schema.TaskInput) actions.Result[models.Task]
	UpdateTask(ctx context.Context, id string, p schema.TaskPatch) actions.Result[models.Task]
	DeleteTask(ctx context.Context, id string) actions.Result[actions.None]
}

type taskSavedMsg struct {
	res     actions.Result[models.Task]
	created bool
}

type taskDeletedMsg struct {
	res actions.Result[actions.None]
}

// Focusable fields of the task form, in tab order
const (
	taskFocusTitle = iota
	taskFocusDesc
	taskFocusStatus
	taskFocusPriority
	taskFocusProject
	taskFocusDue
	taskFocusStart
	taskFocusEnd
	taskFocusAllDay
	taskFocusSubmit
	taskFields
)

var priorityLabels = map[models.Priority]string{
	models.PriorityLow:    "Low",
	models.PriorityMedium: "Medium",
	models.PriorityHigh:   "High",
}

// TaskDialog is the create-task and edit-task form
type TaskDialog struct {
	svc    TaskService
	styles *styles.Styles
	keys   keys.KeyMap
	loc    *time.Location

	width  int
	height int

	open             bool
	pending          bool
	editing          *models.TaskWithProject // nil when creating
	confirmingDelete bool
	errs             map[string]string
	errText          string

	projects []models.Project

	// Form state
	title      textinput.Model
	desc       textarea.Model
	due        textinput.Model
	start      textinput.Model
	end        textinput.Model
	statusIdx  int
	priority   int
	projectIdx int // 0 = no project, otherwise projects[projectIdx-1]
	allDay     bool
	focusIdx   int

	// seed is the form as OpenEdit filled it. Fields still equal to it are
	// left out of the patch.
	seed formValues
}

// formValues is the comparable state of every task field
type formValues struct {
	title, desc, due, start, end string
	status, priority, project    int
	allDay                       bool
}

func (d *TaskDialog) values() formValues {
	return formValues{
		title:    d.title.Value(),
		desc:     d.desc.Value(),
		due:      d.due.Value(),
		start:    d.start.Value(),
		end:      d.end.Value(),
		status:   d.statusIdx,
		priority: d.priority,
		project:  d.projectIdx,
		allDay:   d.allDay,
	}
}

// NewTaskDialog creates a closed task dialog. Dates are read and shown in loc.
func NewTaskDialog(svc TaskService, s *styles.Styles, loc *time.Location) *TaskDialog {
	if loc == nil {
		loc = time.Local
	}

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(DateLayout)

	start := textinput.New()
	start.Placeholder = "YYYY-MM-DD HH:MM"
	start.CharLimit = len(DateTimeLayout)

	end := textinput.New()
	end.Placeholder = "YYYY-MM-DD HH:MM"
	end.CharLimit = len(DateTimeLayout)

	return &TaskDialog{
		svc:    svc,
		styles: s,
		keys:   keys.DefaultKeyMap(),
		loc:    loc,
		title:  title,
		desc:   desc,
		due:    due,
		start:  start,
		end:    end,
	}
}

// OpenCreate shows an empty form, optionally with a due date filled in
func (d *TaskDialog) OpenCreate(projects []models.Project, due *time.Time) tea.Cmd {
	d.reset(projects)
	d.editing = nil
	d.statusIdx = indexOf(models.Statuses, models.StatusTodo)
	d.priority = indexOf(models.Priorities, models.PriorityMedium)
	d.due.SetValue(formatDate(due, d.loc))
	d.open = true
	return textinput.Blink
}

// OpenEdit shows the form seeded from task
func (d *TaskDialog) OpenEdit(task models.TaskWithProject, projects []models.Project) tea.Cmd {
	d.reset(projects)
	d.editing = &task

	d.title.SetValue(task.Title)
	d.desc.SetValue(task.Description)
	d.statusIdx = max(0, indexOf(models.Statuses, task.Status))
	d.priority = max(0, indexOf(models.Priorities, task.Priority))
	if task.ProjectID != nil {
		for i, p := range projects {
			if p.ID == *task.ProjectID {
				d.projectIdx = i + 1
				break
			}
		}
	}
	d.due.SetValue(formatDate(task.DueDate, d.loc))
	d.start.SetValue(formatDateTime(task.StartTime, d.loc))
	d.end.SetValue(formatDateTime(task.EndTime, d.loc))
	d.allDay = task.AllDay
	d.seed = d.values()

	d.open = true
	return textinput.Blink
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}

func (d *TaskDialog) reset(projects []models.Project) {
	d.projects = projects
	d.title.Reset()
	d.desc.Reset()
	d.due.Reset()
	d.start.Reset()
	d.end.Reset()
	d.statusIdx = 0
	d.priority = 0
	d.projectIdx = 0
	d.allDay = false
	d.seed = formValues{}
	d.errs = nil
	d.errText = ""
	d.pending = false
	d.confirmingDelete = false
	d.focusIdx = taskFocusTitle
	d.updateFocus()
}

// Active reports whether the dialog is shown
func (d *TaskDialog) Active() bool { return d.open }

// Editing reports whether the dialog edits an existing task
func (d *TaskDialog) Editing() bool { return d.editing != nil }

// Pending reports whether an action is in flight
func (d *TaskDialog) Pending() bool { return d.pending }

// ConfirmingDelete reports whether the delete confirmation is shown
func (d *TaskDialog) ConfirmingDelete() bool { return d.confirmingDelete }

// Errors returns the field messages from the last submit
func (d *TaskDialog) Errors() map[string]string { return d.errs }

// Err returns the action error from the last submit
func (d *TaskDialog) Err() string { return d.errText }

// SetSize sets the area the dialog is centered in
func (d *TaskDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.desc.SetWidth(clamp(styles.ContentWidth(width)-16, 20, 50))
}

func (d *TaskDialog) projectID() string {
	if d.projectIdx == 0 || d.projectIdx > len(d.projects) {
		return ""
	}
	return d.projects[d.projectIdx-1].ID
}

// dates parses the three date fields, collecting format errors
func (d *TaskDialog) dates(errs map[string]string) (due, start, end *time.Time) {
	var ok bool
	if due, ok = parseDate(d.due.Value(), d.loc); !ok {
		errs["dueDate"] = "Due date must be YYYY-MM-DD"
	}
	if start, ok = parseDateTime(d.start.Value(), d.loc); !ok {
		errs["startTime"] = "Start time must be YYYY-MM-DD HH:MM"
	}
	if end, ok = parseDateTime(d.end.Value(), d.loc); !ok {
		errs["endTime"] = "End time must be YYYY-MM-DD HH:MM"
	}
	return due, start, end
}

// Input returns the form as a create payload with any parse errors
func (d *TaskDialog) Input() (schema.TaskInput, map[string]string) {
	errs := map[string]string{}
	due, start, end := d.dates(errs)
	in := schema.TaskInput{
		Title:       d.title.Value(),
		Description: d.desc.Value(),
		Status:      models.Statuses[d.statusIdx],
		Priority:    models.Priorities[d.priority],
		ProjectID:   d.projectID(),
		DueDate:     due,
		StartTime:   start,
		EndTime:     end,
		AllDay:      d.allDay,
	}
	return in, errs
}

// Patch returns the fields the user changed since OpenEdit as an update.
// Untouched fields keep their stored values, including a project missing
// from the loaded list and the time of day on a due date.
func (d *TaskDialog) Patch() (schema.TaskPatch, map[string]string) {
	in, errs := d.Input()
	cur, seed := d.values(), d.seed

	var p schema.TaskPatch
	if cur.title != seed.title {
		p.Title = &in.Title
	}
	if cur.desc != seed.desc {
		p.Description = &in.Description
	}
	if cur.status != seed.status {
		p.Status = &in.Status
	}
	if cur.priority != seed.priority {
		p.Priority = &in.Priority
	}
	if cur.allDay != seed.allDay {
		p.AllDay = &in.AllDay
	}
	if cur.due != seed.due {
		p.DueDate = nullable(in.DueDate)
	}
	if cur.start != seed.start {
		p.StartTime = nullable(in.StartTime)
	}
	if cur.end != seed.end {
		p.EndTime = nullable(in.EndTime)
	}
	if cur.project != seed.project {
		if in.ProjectID == "" {
			p.ProjectID = schema.Null[string]()
		} else {
			p.ProjectID = schema.Set(in.ProjectID)
		}
	}
	return p, errs
}

func nullable(t *time.Time) schema.Nullable[time.Time] {
	if t == nil {
		return schema.Null[time.Time]()
	}
	return schema.Set(*t)
}

// Init initializes the dialog
func (d *TaskDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (d *TaskDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskSavedMsg:
		d.pending = false
		if !msg.res.Success {
			d.errText = msg.res.Error
			d.errs = resultErrors(msg.res)
			return d, nil
		}
		text := "Task updated"
		if msg.created {
			text = "Task created"
		}
		d.reset(d.projects)
		d.open = false
		d.editing = nil
		return d, func() tea.Msg { return Saved{Message: text} }

	case taskDeletedMsg:
		d.pending = false
		d.confirmingDelete = false
		if !msg.res.Success {
			d.errText = msg.res.Error
			return d, nil
		}
		d.reset(d.projects)
		d.open = false
		d.editing = nil
		return d, func() tea.Msg { return Saved{Message: "Task deleted"} }

	case tea.KeyMsg:
		if d.pending {
			return d, nil
		}
		if d.confirmingDelete {
			return d.updateConfirmDelete(msg)
		}
		return d.updateEditing(msg)
	}
	return d, nil
}

func (d *TaskDialog) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Confirm):
		d.pending = true
		d.errText = ""
		svc, id := d.svc, d.editing.ID
		return d, func() tea.Msg {
			return taskDeletedMsg{res: svc.DeleteTask(context.Background(), id)}
		}
	case key.Matches(msg, d.keys.Cancel):
		d.confirmingDelete = false
	}
	return d, nil
}

func (d *TaskDialog) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Back):
		d.open = false
		d.editing = nil
		return d, nil

	case key.Matches(msg, d.keys.Save):
		return d, d.submit()

	case key.Matches(msg, d.keys.DeleteTask):
		if d.editing != nil {
			d.confirmingDelete = true
		}
		return d, nil

	case key.Matches(msg, d.keys.ShiftTab):
		d.focusIdx = (d.focusIdx + taskFields - 1) % taskFields
		d.updateFocus()
		return d, nil

	case key.Matches(msg, d.keys.Tab):
		d.focusIdx = (d.focusIdx + 1) % taskFields
		d.updateFocus()
		return d, nil
	}

	switch d.focusIdx {
	case taskFocusStatus, taskFocusPriority, taskFocusProject:
		return d, d.updateChoice(msg)

	case taskFocusAllDay:
		if key.Matches(msg, d.keys.Toggle) {
			d.allDay = !d.allDay
			return d, nil
		}

	case taskFocusSubmit:
		if key.Matches(msg, d.keys.Enter) {
			return d, d.submit()
		}
		return d, nil
	}

	// Enter moves on from single-line fields; the description keeps newlines
	if key.Matches(msg, d.keys.Enter) && d.focusIdx != taskFocusDesc {
		d.focusIdx++
		d.updateFocus()
		return d, nil
	}

	var cmd tea.Cmd
	switch d.focusIdx {
	case taskFocusTitle:
		d.title, cmd = d.title.Update(msg)
	case taskFocusDesc:
		d.desc, cmd = d.desc.Update(msg)
	case taskFocusDue:
		d.due, cmd = d.due.Update(msg)
	case taskFocusStart:
		d.start, cmd = d.start.Update(msg)
	case taskFocusEnd:
		d.end, cmd = d.end.Update(msg)
	}
	return d, cmd
}

// updateChoice cycles the focused selector with left and right
func (d *TaskDialog) updateChoice(msg tea.KeyMsg) tea.Cmd {
	delta := 0
	switch {
	case key.Matches(msg, d.keys.Left):
		delta = -1
	case key.Matches(msg, d.keys.Right), key.Matches(msg, d.keys.Toggle):
		delta = 1
	case key.Matches(msg, d.keys.Enter):
		d.focusIdx++
		d.updateFocus()
		return nil
	}

	cycle := func(i, n int) int { return (i + delta + n) % n }
	switch d.focusIdx {
	case taskFocusStatus:
		d.statusIdx = cycle(d.statusIdx, len(models.Statuses))
	case taskFocusPriority:
		d.priority = cycle(d.priority, len(models.Priorities))
	case taskFocusProject:
		d.projectIdx = cycle(d.projectIdx, len(d.projects)+1)
	}
	return nil
}

func (d *TaskDialog) updateFocus() {
	d.title.Blur()
	d.desc.Blur()
	d.due.Blur()
	d.start.Blur()
	d.end.Blur()

	switch d.focusIdx {
	case taskFocusTitle:
		d.title.Focus()
	case taskFocusDesc:
		d.desc.Focus()
	case taskFocusDue:
		d.due.Focus()
	case taskFocusStart:
		d.start.Focus()
	case taskFocusEnd:
		d.end.Focus()
	}
}

// submit validates the form and starts the create or update
func (d *TaskDialog) submit() tea.Cmd {
	if d.pending {
		return nil
	}
	svc := d.svc

	if d.editing == nil {
		in, errs := d.Input()
		if _, err := schema.ValidateTask(in); err != nil {
			for k, v := range formErrors(err) {
				errs[k] = v
			}
		}
		if len(errs) > 0 {
			d.errs, d.errText = errs, ""
			return nil
		}
		d.pending, d.errs, d.errText = true, nil, ""
		return func() tea.Msg {
			return taskSavedMsg{res: svc.CreateTask(context.Background(), in), created: true}
		}
	}

	// The whole form is validated, the patch carries only the changes
	in, errs := d.Input()
	if _, err := schema.ValidateTask(in); err != nil {
		for k, v := range formErrors(err) {
			errs[k] = v
		}
	}
	p, _ := d.Patch()
	if len(errs) > 0 {
		d.errs, d.errText = errs, ""
		return nil
	}
	d.pending, d.errs, d.errText = true, nil, ""
	id := d.editing.ID
	return func() tea.Msg {
		return taskSavedMsg{res: svc.UpdateTask(context.Background(), id, p)}
	}
}

// View renders the dialog
func (d *TaskDialog) View() string {
	if d.confirmingDelete {
		return d.renderDeleteConfirm()
	}
	return d.renderForm()
}

func (d *TaskDialog) renderForm() string {
	s := d.styles
	inputWidth := clamp(styles.ContentWidth(d.width)-12, 20, 50)
	f := d.focusIdx

	heading, blurb, btnLabel, pendingLabel := "New Task", "Add a new task to your schedule.", " Create Task ", " Creating... "
	if d.editing != nil {
		heading, blurb, btnLabel, pendingLabel = "Edit Task", "Update your task details.", " Update Task ", " Updating... "
	}
	if d.pending {
		btnLabel = pendingLabel
	}
	btnStyle := s.Button
	if f == taskFocusSubmit {
		btnStyle = s.ButtonFocused
	}

	project := "No project"
	if d.projectIdx > 0 && d.projectIdx <= len(d.projects) {
		p := d.projects[d.projectIdx-1]
		project = styles.Swatch(p.Color) + " " + p.Name
	}
	allDay := "[ ] All day"
	if d.allDay {
		allDay = "[x] All day"
	}
	allDayStyle := s.TitleMuted
	if f == taskFocusAllDay {
		allDayStyle = s.HelpKey
	}

	descStyle := s.Input
	if f == taskFocusDesc {
		descStyle = s.InputFocused
	}

	status := models.Statuses[d.statusIdx]
	priority := models.Priorities[d.priority]

	parts := []string{
		s.Title.Render(heading),
		s.TitleMuted.Render(blurb),
		"",
		field(s, "Title", d.title.View(), f == taskFocusTitle, inputWidth, d.errs["title"]),
		"Description:",
		descStyle.Render(d.desc.View()),
		lipgloss.JoinHorizontal(lipgloss.Top,
			choice(s, "Status", layout.ColumnTitle(status), f == taskFocusStatus, inputWidth/2, d.errs["status"]),
			" ",
			choice(s, "Priority", priorityLabels[priority], f == taskFocusPriority, inputWidth/2, d.errs["priority"]),
		),
		choice(s, "Project", project, f == taskFocusProject, inputWidth, d.errs["projectId"]),
		field(s, "Due date", d.due.View(), f == taskFocusDue, inputWidth, d.errs["dueDate"]),
		lipgloss.JoinHorizontal(lipgloss.Top,
			field(s, "Start", d.start.View(), f == taskFocusStart, inputWidth/2, d.errs["startTime"]),
			" ",
			field(s, "End", d.end.View(), f == taskFocusEnd, inputWidth/2, d.errs["endTime"]),
		),
		allDayStyle.Render(allDay),
		"",
		btnStyle.Render(btnLabel),
	}
	if msg := d.errs[""]; msg != "" {
		parts = append(parts, s.FieldError.Render(msg))
	}
	if d.errText != "" {
		parts = append(parts, s.FieldError.Render(d.errText))
	}

	help := "Tab: next • ←/→: choose • Space: toggle • Ctrl+S: save • Esc: cancel"
	if d.editing != nil {
		help += " • Ctrl+D: delete"
	}
	parts = append(parts, "", s.TitleMuted.Render(help))

	form := s.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, form)
}

func (d *TaskDialog) renderDeleteConfirm() string {
	s := d.styles

	yes := " Y - Yes "
	if d.pending {
		yes = " Deleting... "
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render("Are you sure you want to delete \""+d.editing.Title+"\"?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(yes),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return lipgloss.Place(d.width, d.height,
		lipgloss.Center, lipgloss.Center,
		s.Dialog.Render(content),
	)
}
