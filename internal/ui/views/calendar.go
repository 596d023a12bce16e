package views

import (
	"fmt"
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

// tasks shown inside one day cell before "+N more"
const cellTasks = 2

// CalendarView shows a month grid with the tasks due or starting on each day
type CalendarView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	tasks []models.TaskWithProject

	width  int
	height int

	// UI state
	month    time.Time // first day of the displayed month
	selected time.Time // midnight of the highlighted day
	cursor   int       // index into the highlighted day's tasks
}

// NewCalendarView creates a calendar showing the current month
func NewCalendarView(s *styles.Styles, now func() time.Time) *CalendarView {
	if now == nil {
		now = time.Now
	}
	today := dayStart(now())
	return &CalendarView{
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		now:      now,
		month:    layout.MonthStart(today),
		selected: today,
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Init initializes the view
func (v *CalendarView) Init() tea.Cmd {
	return nil
}

// SetTasks replaces the tasks the grid is built from
func (v *CalendarView) SetTasks(tasks []models.TaskWithProject) {
	v.tasks = tasks
	if n := len(v.dayTasks()); v.cursor >= n {
		v.cursor = max(0, n-1)
	}
}

// SetSize sets the area the view may draw in
func (v *CalendarView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Month returns the first day of the displayed month
func (v *CalendarView) Month() time.Time { return v.month }

// Selected returns the highlighted day
func (v *CalendarView) Selected() time.Time { return v.selected }

// Grid returns the displayed month's grid
func (v *CalendarView) Grid() layout.Grid {
	return layout.MonthGrid(v.month, v.now(), v.tasks)
}

func (v *CalendarView) dayTasks() []models.TaskWithProject {
	return layout.TasksOn(v.selected, v.tasks)
}

// Update handles messages
func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *CalendarView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.PrevMonth):
		v.showMonth(layout.AddMonths(v.month, -1))
	case key.Matches(msg, v.keys.NextMonth):
		v.showMonth(layout.AddMonths(v.month, 1))
	case key.Matches(msg, v.keys.Today):
		v.selectDay(dayStart(v.now()))

	case key.Matches(msg, v.keys.PrevDay):
		v.selectDay(v.selected.AddDate(0, 0, -1))
	case key.Matches(msg, v.keys.NextDay):
		v.selectDay(v.selected.AddDate(0, 0, 1))
	case key.Matches(msg, v.keys.PrevWeek):
		v.selectDay(v.selected.AddDate(0, 0, -7))
	case key.Matches(msg, v.keys.NextWeek):
		v.selectDay(v.selected.AddDate(0, 0, 7))

	// arrows are taken above, so only j/k reach these
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.dayTasks())-1 {
			v.cursor++
		}

	case key.Matches(msg, v.keys.Enter):
		if tasks := v.dayTasks(); len(tasks) > 0 {
			return v, editTask(tasks[v.cursor])
		}
	}
	return v, nil
}

// showMonth displays month and highlights its first day
func (v *CalendarView) showMonth(month time.Time) {
	v.month = layout.MonthStart(month)
	v.selected = v.month
	v.cursor = 0
}

// selectDay highlights day, following it into its month
func (v *CalendarView) selectDay(day time.Time) {
	v.selected = dayStart(day)
	v.month = layout.MonthStart(v.selected)
	v.cursor = 0
}

// View renders the view
func (v *CalendarView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderGrid())
	b.WriteString("\n")
	b.WriteString(v.renderDay())

	return b.String()
}

func (v *CalendarView) renderHeader() string {
	s := v.styles
	title := s.Title.Render(v.month.Format("January"))
	year := s.TitleMuted.Render(v.month.Format("2006"))
	nav := fmt.Sprintf("%s prev • %s today • %s next",
		s.HelpKey.Render("h"),
		s.HelpKey.Render("t"),
		s.HelpKey.Render("l"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", year, "   ", s.HelpDesc.Render(nav))
}

func (v *CalendarView) cellWidth() int {
	// each cell draws a one-column border on both sides
	return clamp(v.width/7-2, 4, 16)
}

func (v *CalendarView) renderGrid() string {
	s := v.styles
	cw := v.cellWidth()

	headers := make([]string, len(layout.Weekdays))
	for i, d := range layout.Weekdays {
		headers[i] = s.DayHeader.Width(cw + 2).Render(d)
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headers...)}
	for _, week := range v.Grid().Weeks() {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = v.renderCell(c, cw)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CalendarView) renderCell(c layout.Cell, width int) string {
	s := v.styles

	style := s.Day
	if !c.InMonth {
		style = s.DayOutside
	}
	if layout.SameDay(c.Date, v.selected) {
		style = s.DaySelected
	}

	num := c.Date.Format("2")
	if c.IsToday {
		num = s.DayToday.Render(" " + num + " ")
	}

	lines := []string{num}
	for i, t := range c.Tasks {
		if i == cellTasks {
			lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("+%d more", len(c.Tasks)-cellTasks)))
			break
		}
		color := lipgloss.Color(t.ProjectColor())
		lines = append(lines, s.DayTask.Foreground(color).Render("▎"+truncate(t.Title, width-1)))
	}

	return style.Width(width).Height(cellTasks + 2).Render(strings.Join(lines, "\n"))
}

func (v *CalendarView) renderDay() string {
	s := v.styles
	tasks := v.dayTasks()

	heading := s.Title.Render(v.selected.Format("Mon, Jan 2"))
	if len(tasks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.TitleMuted.Render("Nothing scheduled"))
	}

	items := []string{heading}
	for i, t := range tasks {
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		line := styles.Swatch(t.ProjectColor()) + " " + t.Title
		if t.AllDay {
			line += s.TitleMuted.Render("  all day")
		} else if t.StartTime != nil {
			line += s.TitleMuted.Render("  " + t.StartTime.In(v.selected.Location()).Format("15:04"))
		}
		items = append(items, style.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}
