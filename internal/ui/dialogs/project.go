package dialogs

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"github.com/yousefammmar/zenith-flow/internal/ui/keys"
	"github.com/yousefammmar/zenith-flow/internal/ui/styles"
)

// ProjectCreator creates projects
type ProjectCreator interface {
	CreateProject(ctx context.Context, in schema.ProjectInput) actions.Result[models.Project]
}

type projectCreatedMsg struct {
	res actions.Result[models.Project]
}

const (
	projectFocusName = iota
	projectFocusColor
	projectFocusDesc
	projectFocusCreate
	projectFields
)

// ProjectDialog is the create-project form
type ProjectDialog struct {
	svc    ProjectCreator
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	open    bool
	pending bool
	errs    map[string]string
	errText string

	name     textinput.Model
	color    textinput.Model
	desc     textinput.Model
	focusIdx int
}

// NewProjectDialog creates a closed create-project dialog
func NewProjectDialog(svc ProjectCreator, s *styles.Styles) *ProjectDialog {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 100

	color := textinput.New()
	color.Placeholder = models.DefaultProjectColor
	color.CharLimit = 7

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 500

	return &ProjectDialog{
		svc:    svc,
		styles: s,
		keys:   keys.DefaultKeyMap(),
		name:   name,
		color:  color,
		desc:   desc,
	}
}

// Open shows the dialog with an empty form
func (d *ProjectDialog) Open() tea.Cmd {
	d.reset()
	d.open = true
	return textinput.Blink
}

// Active reports whether the dialog is shown
func (d *ProjectDialog) Active() bool { return d.open }

// Pending reports whether a create is in flight
func (d *ProjectDialog) Pending() bool { return d.pending }

// Errors returns the field messages from the last submit
func (d *ProjectDialog) Errors() map[string]string { return d.errs }

// Err returns the action error from the last submit
func (d *ProjectDialog) Err() string { return d.errText }

// SetSize sets the area the dialog is centered in
func (d *ProjectDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

func (d *ProjectDialog) reset() {
	d.name.Reset()
	d.color.Reset()
	d.desc.Reset()
	d.errs = nil
	d.errText = ""
	d.pending = false
	d.focusIdx = projectFocusName
	d.updateFocus()
}

func (d *ProjectDialog) input() schema.ProjectInput {
	return schema.ProjectInput{
		Name:        d.name.Value(),
		Color:       d.color.Value(),
		Description: d.desc.Value(),
	}
}

// Update handles messages
func (d *ProjectDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectCreatedMsg:
		d.pending = false
		if !msg.res.Success {
			d.errText = msg.res.Error
			d.errs = resultErrors(msg.res)
			return d, nil
		}
		name := msg.res.Data.Name
		d.reset()
		d.open = false
		return d, func() tea.Msg { return Saved{Message: "Project " + name + " created"} }

	case tea.KeyMsg:
		if d.pending {
			return d, nil
		}
		return d.updateEditing(msg)
	}
	return d, nil
}

func (d *ProjectDialog) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Back):
		d.open = false
		return d, nil

	case key.Matches(msg, d.keys.Save):
		return d, d.submit()

	case key.Matches(msg, d.keys.ShiftTab):
		d.focusIdx = (d.focusIdx + projectFields - 1) % projectFields
		d.updateFocus()
		return d, nil

	case key.Matches(msg, d.keys.Tab):
		d.focusIdx = (d.focusIdx + 1) % projectFields
		d.updateFocus()
		return d, nil

	case key.Matches(msg, d.keys.Enter):
		if d.focusIdx == projectFocusCreate {
			return d, d.submit()
		}
		d.focusIdx++
		d.updateFocus()
		return d, nil
	}

	var cmd tea.Cmd
	switch d.focusIdx {
	case projectFocusName:
		d.name, cmd = d.name.Update(msg)
	case projectFocusColor:
		d.color, cmd = d.color.Update(msg)
	case projectFocusDesc:
		d.desc, cmd = d.desc.Update(msg)
	}
	return d, cmd
}

func (d *ProjectDialog) updateFocus() {
	d.name.Blur()
	d.color.Blur()
	d.desc.Blur()
	switch d.focusIdx {
	case projectFocusName:
		d.name.Focus()
	case projectFocusColor:
		d.color.Focus()
	case projectFocusDesc:
		d.desc.Focus()
	}
}

// submit validates the form and starts the create
func (d *ProjectDialog) submit() tea.Cmd {
	if d.pending {
		return nil
	}
	in := d.input()
	if _, err := schema.ValidateProject(in); err != nil {
		d.errs = formErrors(err)
		d.errText = ""
		return nil
	}

	d.pending = true
	d.errs = nil
	d.errText = ""
	svc := d.svc
	return func() tea.Msg {
		return projectCreatedMsg{res: svc.CreateProject(context.Background(), in)}
	}
}

// Init initializes the dialog
func (d *ProjectDialog) Init() tea.Cmd {
	return nil
}

// View renders the dialog
func (d *ProjectDialog) View() string {
	s := d.styles
	inputWidth := clamp(styles.ContentWidth(d.width)-12, 20, 50)

	btnStyle := s.Button
	if d.focusIdx == projectFocusCreate {
		btnStyle = s.ButtonFocused
	}
	btnLabel := " Create Project "
	if d.pending {
		btnLabel = " Creating... "
	}

	swatch := ""
	if in, err := schema.ValidateProject(d.input()); err == nil {
		swatch = " " + styles.Swatch(in.Color)
	}

	parts := []string{
		s.Title.Render("New Project"),
		s.TitleMuted.Render("Create a new project to organize your tasks."),
		"",
		field(s, "Name", d.name.View(), d.focusIdx == projectFocusName, inputWidth, d.errs["name"]),
		field(s, "Color"+swatch, d.color.View(), d.focusIdx == projectFocusColor, inputWidth, d.errs["color"]),
		field(s, "Description", d.desc.View(), d.focusIdx == projectFocusDesc, inputWidth, d.errs["description"]),
		"",
		btnStyle.Render(btnLabel),
	}
	if msg := d.errs[""]; msg != "" {
		parts = append(parts, s.FieldError.Render(msg))
	}
	if d.errText != "" {
		parts = append(parts, s.FieldError.Render(d.errText))
	}
	parts = append(parts, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := s.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, form)
}
