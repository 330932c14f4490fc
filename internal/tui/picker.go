// Package tui hosts the interactive database picker used when configuring
// the target database.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/notionclip/internal/notion"
)

type dbItem struct {
	db notion.Database
}

func (d dbItem) Title() string {
	if d.db.Title == "" {
		return "(untitled database)"
	}
	return d.db.Title
}

func (d dbItem) Description() string {
	return d.db.ID
}

func (d dbItem) FilterValue() string {
	return d.db.Title + " " + d.db.ID
}

type pickerModel struct {
	list     list.Model
	selected *notion.Database
	quitting bool
}

func newPickerModel(databases []notion.Database) pickerModel {
	items := make([]list.Item, 0, len(databases))
	for _, db := range databases {
		items = append(items, dbItem{db: db})
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = "Pick the target database"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(dbItem); ok {
				db := item.db
				m.selected = &db
			}
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	return m.list.View() + helpStyle.Render("[Enter]select [q]uit")
}

// PickDatabase shows the picker and returns the chosen database, or nil when
// the user backed out.
func PickDatabase(databases []notion.Database) (*notion.Database, error) {
	if len(databases) == 0 {
		return nil, fmt.Errorf("no databases shared with the integration")
	}

	p := tea.NewProgram(newPickerModel(databases), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(pickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model")
	}
	return m.selected, nil
}
