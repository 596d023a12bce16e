package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yousefammmar/zenith-flow/internal/layout"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/ui/keys"
	"github.com/yousefammmar/zenith-flow/internal/ui/styles"
)

var listHeaders = []string{"Title", "Project", "Status", "Priority", "Due Date"}

// ListView shows every task as a row of a table
type ListView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	loc    *time.Location

	rows []layout.Row

	width  int
	height int

	cursor  int
	scrollY int
}

// NewListView creates a new list view
func NewListView(s *styles.Styles) *ListView {
	return &ListView{
		styles: s,
		keys:   keys.DefaultKeyMap(),
		loc:    time.Local,
	}
}

// Init initializes the view
func (v *ListView) Init() tea.Cmd {
	return nil
}

// SetTasks rebuilds the table rows
func (v *ListView) SetTasks(tasks []models.TaskWithProject) {
	v.rows = layout.Rows(tasks, v.loc)
	if v.cursor >= len(v.rows) {
		v.cursor = max(0, len(v.rows)-1)
	}
	v.ensureVisible()
}

// SetSize sets the area the view may draw in
func (v *ListView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Rows returns the table rows
func (v *ListView) Rows() []layout.Row { return v.rows }

// Update handles messages
func (v *ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.rows)-1 {
				v.cursor++
				v.ensureVisible()
			}
		case key.Matches(msg, v.keys.Enter):
			if len(v.rows) > 0 {
				return v, editTask(v.rows[v.cursor].Task)
			}
		}
	}
	return v, nil
}

func (v *ListView) visibleRows() int {
	return max(1, v.height-3)
}

func (v *ListView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// columnWidths splits the width between the five columns, title gets the rest
func (v *ListView) columnWidths() []int {
	project, status, priority, due := 16, 13, 9, 13
	title := max(12, v.width-project-status-priority-due-2)
	return []int{title, project, status, priority, due}
}

// View renders the view
func (v *ListView) View() string {
	s := v.styles

	if len(v.rows) == 0 {
		return v.renderEmpty()
	}

	widths := v.columnWidths()
	header := make([]string, len(listHeaders))
	for i, h := range listHeaders {
		header[i] = lipgloss.NewStyle().Width(widths[i]).Render(h)
	}

	lines := []string{s.TableHeader.Render(strings.Join(header, ""))}
	end := min(v.scrollY+v.visibleRows(), len(v.rows))
	for i := v.scrollY; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i], widths, i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *ListView) renderRow(r layout.Row, widths []int, selected bool) string {
	s := v.styles

	project := r.Project
	if r.ProjectColor != "" {
		project = styles.Swatch(r.ProjectColor) + " " + truncate(r.Project, widths[1]-3)
	}

	cells := []string{
		truncate(r.Title, widths[0]-1),
		project,
		s.Badge.UnsetPadding().Render(r.Status),
		s.PriorityStyle(r.Priority).UnsetPadding().Render(r.Priority),
		r.Due,
	}
	for i := range cells {
		cells[i] = lipgloss.NewStyle().Width(widths[i]).Render(cells[i])
	}

	style := s.TableRow
	if selected {
		style = s.TableSelected
	}
	return style.Render(strings.Join(cells, ""))
}

func (v *ListView) renderEmpty() string {
	s := v.styles

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No tasks found"),
		"",
		s.TitleMuted.Render("Press 'n' to create a task"),
	)

	return lipgloss.Place(v.width, max(v.height, 5),
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
