package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/notionclip/internal/notion"
)

func testDatabases() []notion.Database {
	return []notion.Database{
		{ID: "db-1", Title: "Reading List"},
		{ID: "db-2", Title: "Inbox"},
	}
}

func TestPickerModel_EnterSelectsHighlighted(t *testing.T) {
	m := newPickerModel(testDatabases())

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(pickerModel)

	if m.selected == nil {
		t.Fatal("expected a selection after pressing Enter")
	}
	if m.selected.ID != "db-1" {
		t.Errorf("expected db-1 selected, got %s", m.selected.ID)
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
}

func TestPickerModel_QQuitsWithoutSelection(t *testing.T) {
	m := newPickerModel(testDatabases())

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = newModel.(pickerModel)

	if m.selected != nil {
		t.Errorf("expected no selection after q, got %v", m.selected)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestDbItem_UntitledFallback(t *testing.T) {
	item := dbItem{db: notion.Database{ID: "db-9"}}
	if item.Title() != "(untitled database)" {
		t.Errorf("unexpected title: %q", item.Title())
	}
	if item.Description() != "db-9" {
		t.Errorf("unexpected description: %q", item.Description())
	}
}
