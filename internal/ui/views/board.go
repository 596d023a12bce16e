package views

import (
	"strconv"
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

// BoardView shows tasks in one column per status
type BoardView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	loc    *time.Location

	columns []layout.Column

	width  int
	height int

	// UI state
	column  int
	cursors []int // card cursor per column
	scrollY []int
}

// NewBoardView creates a new board view
func NewBoardView(s *styles.Styles) *BoardView {
	v := &BoardView{
		styles: s,
		keys:   keys.DefaultKeyMap(),
		loc:    time.Local,
	}
	v.SetTasks(nil)
	return v
}

// Init initializes the view
func (v *BoardView) Init() tea.Cmd {
	return nil
}

// SetTasks re-partitions the board
func (v *BoardView) SetTasks(tasks []models.TaskWithProject) {
	v.columns = layout.Board(tasks)
	if len(v.cursors) != len(v.columns) {
		v.cursors = make([]int, len(v.columns))
		v.scrollY = make([]int, len(v.columns))
	}
	for i, c := range v.columns {
		if v.cursors[i] >= len(c.Tasks) {
			v.cursors[i] = max(0, len(c.Tasks)-1)
		}
		if v.scrollY[i] > v.cursors[i] {
			v.scrollY[i] = v.cursors[i]
		}
	}
}

// SetSize sets the area the view may draw in
func (v *BoardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Columns returns the current partition
func (v *BoardView) Columns() []layout.Column { return v.columns }

// Selected returns the focused card, if any
func (v *BoardView) Selected() (models.TaskWithProject, bool) {
	tasks := v.columns[v.column].Tasks
	if len(tasks) == 0 {
		return models.TaskWithProject{}, false
	}
	return tasks[v.cursors[v.column]], true
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Left):
			if v.column > 0 {
				v.column--
			}
		case key.Matches(msg, v.keys.Right):
			if v.column < len(v.columns)-1 {
				v.column++
			}
		case key.Matches(msg, v.keys.Up):
			if v.cursors[v.column] > 0 {
				v.cursors[v.column]--
				v.ensureVisible()
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursors[v.column] < len(v.columns[v.column].Tasks)-1 {
				v.cursors[v.column]++
				v.ensureVisible()
			}
		case key.Matches(msg, v.keys.Enter):
			if t, ok := v.Selected(); ok {
				return v, editTask(t)
			}
		}
	}
	return v, nil
}

// visibleCards is how many cards fit in a column
func (v *BoardView) visibleCards() int {
	// Each card is 4 lines of content + 2 border lines
	return max(1, (v.height-4)/6)
}

func (v *BoardView) ensureVisible() {
	i := v.column
	visible := v.visibleCards()
	if v.cursors[i] < v.scrollY[i] {
		v.scrollY[i] = v.cursors[i]
	} else if v.cursors[i] >= v.scrollY[i]+visible {
		v.scrollY[i] = v.cursors[i] - visible + 1
	}
}

// View renders the view
func (v *BoardView) View() string {
	colWidth := clamp(v.width/len(v.columns)-2, 16, 40)

	cols := make([]string, len(v.columns))
	for i, c := range v.columns {
		cols[i] = v.renderColumn(i, c, colWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v *BoardView) renderColumn(idx int, c layout.Column, width int) string {
	s := v.styles
	inner := width - 4

	title := s.ColumnTitle.Render(c.Title) + s.TitleMuted.Render(" "+strconv.Itoa(len(c.Tasks)))
	items := []string{title, ""}

	if len(c.Tasks) == 0 {
		items = append(items, s.TitleMuted.Render("No tasks yet"))
	} else {
		end := min(v.scrollY[idx]+v.visibleCards(), len(c.Tasks))
		for i := v.scrollY[idx]; i < end; i++ {
			focused := idx == v.column && i == v.cursors[idx]
			items = append(items, v.renderCard(c.Tasks[i], inner, focused))
		}
		if end < len(c.Tasks) {
			items = append(items, s.TitleMuted.Render("↓ "+strconv.Itoa(len(c.Tasks)-end)+" more"))
		}
	}

	style := s.Column
	if idx == v.column {
		style = style.BorderForeground(styles.Current.BorderFocus)
	}
	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *BoardView) renderCard(t models.TaskWithProject, width int, focused bool) string {
	s := v.styles

	project := s.TitleMuted.Render("No project")
	if t.Project != nil {
		project = styles.Swatch(t.ProjectColor()) + " " + truncate(t.Project.Name, width-12)
	}
	top := project + " " + s.PriorityStyle(string(t.Priority)).Render(string(t.Priority))

	desc := t.Description
	if desc == "" {
		desc = " "
	}

	lines := []string{
		top,
		s.Title.Render(truncate(t.Title, width-2)),
		s.TitleMuted.Render(truncate(strings.ReplaceAll(desc, "\n", " "), width-2)),
		s.HelpDesc.Render("◷ " + layout.CardDate(t, v.loc)),
	}

	style := s.Card
	if focused {
		style = s.CardFocused
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}
