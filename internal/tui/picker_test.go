package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m PickerModel, msg tea.Msg) (PickerModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	pm, ok := updated.(PickerModel)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return pm, cmd
}

func TestNewPickerModel_DefaultIndex(t *testing.T) {
	items := []string{"a-chat", "b-chat", "c-chat"}

	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"in range", 2, 2},
		{"negative", -1, 0},
		{"too large", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPickerModel("title", items, tt.index)
			if m.Cursor() != tt.want {
				t.Errorf("expected cursor %d, got %d", tt.want, m.Cursor())
			}
		})
	}
}

func TestPickerModel_Init(t *testing.T) {
	m := NewPickerModel("title", []string{"a"}, 0)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init should return nil")
	}
}

func TestPickerModel_Navigation(t *testing.T) {
	m := NewPickerModel("title", []string{"a", "b", "c"}, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor() != 1 {
		t.Errorf("down: expected cursor 1, got %d", m.Cursor())
	}

	m, _ = update(t, m, runeKey('j'))
	m, _ = update(t, m, runeKey('j'))
	if m.Cursor() != 0 {
		t.Errorf("down should wrap to the first item, got %d", m.Cursor())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor() != 2 {
		t.Errorf("up should wrap to the last item, got %d", m.Cursor())
	}

	m, _ = update(t, m, runeKey('g'))
	if m.Cursor() != 0 {
		t.Errorf("home: expected cursor 0, got %d", m.Cursor())
	}

	m, _ = update(t, m, runeKey('G'))
	if m.Cursor() != 2 {
		t.Errorf("end: expected cursor 2, got %d", m.Cursor())
	}
}

func TestPickerModel_Select(t *testing.T) {
	m := NewPickerModel("title", []string{"llama3-8b-8192", "mixtral-chat"}, 0)
	m, _ = update(t, m, runeKey('j'))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should quit the program")
	}

	chosen, ok := m.Result()
	if !ok {
		t.Fatal("expected a confirmed result")
	}
	if chosen != "mixtral-chat" {
		t.Errorf("expected mixtral-chat, got %s", chosen)
	}
}

func TestPickerModel_Cancel(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"q", runeKey('q')},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPickerModel("title", []string{"a"}, 0)
			m, cmd := update(t, m, tt.msg)

			if cmd == nil {
				t.Error("cancel should quit the program")
			}
			if !m.IsCancelled() {
				t.Error("expected cancelled model")
			}
			if _, ok := m.Result(); ok {
				t.Error("cancelled model should have no result")
			}
		})
	}
}

func TestPickerModel_View(t *testing.T) {
	m := NewPickerModel("Choose a model", []string{"a-chat", "b-chat"}, 1)
	view := m.View()

	if !strings.Contains(view, "Choose a model") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(view, Indicator+" b-chat") {
		t.Errorf("view should highlight the default item:\n%s", view)
	}
	if !strings.Contains(view, "a-chat") {
		t.Error("view should list every item")
	}
}

func TestPickerModel_ViewScrolls(t *testing.T) {
	items := []string{"m0", "m1", "m2", "m3", "m4", "m5", "m6", "m7"}
	m := NewPickerModel("title", items, 7)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 7})

	view := m.View()
	if !strings.Contains(view, Indicator+" m7") {
		t.Errorf("highlighted item should stay visible:\n%s", view)
	}
	if strings.Contains(view, "m0") {
		t.Errorf("items above the window should be hidden:\n%s", view)
	}
}

func TestPicker_Choose_NoItems(t *testing.T) {
	_, err := NewPicker().Choose(context.Background(), "title", nil, 0)
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}
