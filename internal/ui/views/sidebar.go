package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yousefammmar/zenith-flow/internal/models"
	"github.com/yousefammmar/zenith-flow/internal/ui/styles"
)

// Sidebar shows the brand, the view switcher and the project list
type Sidebar struct {
	styles *styles.Styles

	views    []string
	active   int
	projects []models.Project
	cursor   int
	height   int
}

// NewSidebar creates a sidebar listing the given view names
func NewSidebar(s *styles.Styles, views []string) *Sidebar {
	return &Sidebar{styles: s, views: views}
}

// SetActive highlights the view at index i
func (v *Sidebar) SetActive(i int) { v.active = i }

// SetHeight sets the number of lines the sidebar fills
func (v *Sidebar) SetHeight(h int) { v.height = h }

// SetProjects replaces the project list, keeping the cursor in range
func (v *Sidebar) SetProjects(projects []models.Project) {
	v.projects = projects
	if v.cursor >= len(projects) {
		v.cursor = max(0, len(projects)-1)
	}
}

// Move moves the project cursor by delta
func (v *Sidebar) Move(delta int) {
	if len(v.projects) == 0 {
		return
	}
	v.cursor = clamp(v.cursor+delta, 0, len(v.projects)-1)
}

// Selected returns the project under the cursor, if any
func (v *Sidebar) Selected() (models.Project, bool) {
	if len(v.projects) == 0 {
		return models.Project{}, false
	}
	return v.projects[v.cursor], true
}

// View renders the sidebar
func (v *Sidebar) View() string {
	s := v.styles
	width := styles.SidebarWidth - 4

	items := []string{
		s.Title.Render("✔ Zenith Flow"),
		"",
		s.SidebarLabel.Render("VIEWS"),
	}
	for i, name := range v.views {
		style := s.SidebarItem
		if i == v.active {
			style = s.SidebarActive
		}
		label := s.HelpKey.Render(string(rune('1'+i))) + " " + name
		items = append(items, style.Width(width).Render(label))
	}

	items = append(items, "", s.SidebarLabel.Render("PROJECTS")+s.TitleMuted.Render("  p +"))
	if len(v.projects) == 0 {
		items = append(items, s.TitleMuted.Render("No projects"))
	}
	for i, p := range v.projects {
		style := s.SidebarItem
		if i == v.cursor {
			style = s.ListSelected.Padding(0, 1)
		}
		items = append(items, style.Width(width).Render(styles.Swatch(p.Color)+" "+truncate(p.Name, width-4)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	style := s.Sidebar
	if v.height > 0 {
		style = style.Height(v.height - 2)
	}
	return style.Render(content)
}
