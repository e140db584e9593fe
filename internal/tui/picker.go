package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrNoItems         = errors.New("nothing to choose from")
	ErrPickCancelled   = errors.New("selection cancelled")
	ErrUnexpectedModel = errors.New("unexpected picker state")
)

// Indicator marks the highlighted row.
const Indicator = "=>"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Select key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Home:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// PickerModel is a single-choice list selector.
type PickerModel struct {
	title string
	items []string
	keys  keyMap

	cursor int

	confirmed bool
	cancelled bool

	height int
}

// NewPickerModel creates a picker with defaultIndex highlighted. An out of
// range index highlights the first item.
func NewPickerModel(title string, items []string, defaultIndex int) PickerModel {
	if defaultIndex < 0 || defaultIndex >= len(items) {
		defaultIndex = 0
	}
	return PickerModel{
		title:  title,
		items:  items,
		keys:   defaultKeyMap(),
		cursor: defaultIndex,
	}
}

// Init initializes the model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.items) - 1
			}

		case key.Matches(msg, m.keys.Down):
			m.cursor++
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}

		case key.Matches(msg, m.keys.Home):
			m.cursor = 0

		case key.Matches(msg, m.keys.End):
			m.cursor = len(m.items) - 1

		case key.Matches(msg, m.keys.Select):
			if len(m.items) > 0 {
				m.confirmed = true
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the list
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	maxVisible := m.height - 4 // title, margin, hint
	if maxVisible < 3 {
		maxVisible = len(m.items)
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.items))

	pad := strings.Repeat(" ", len(Indicator)+1)
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(Indicator+" "+m.items[i]) + "\n")
		} else {
			b.WriteString(pad + itemStyle.Render(m.items[i]) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d/%d  ↑/↓ navigate  enter select  esc cancel", m.cursor+1, len(m.items))))

	return b.String()
}

// Cursor returns the highlighted index
func (m PickerModel) Cursor() int {
	return m.cursor
}

// Result returns the chosen item and whether the player confirmed it
func (m PickerModel) Result() (string, bool) {
	if !m.confirmed || m.cancelled || len(m.items) == 0 {
		return "", false
	}
	return m.items[m.cursor], true
}

// IsCancelled returns whether the player backed out
func (m PickerModel) IsCancelled() bool {
	return m.cancelled
}

// Picker runs PickerModel as a full-screen program.
type Picker struct {
	options []tea.ProgramOption
}

// NewPicker creates a picker. Extra program options are appended to the
// defaults (alt screen, caller's context).
func NewPicker(options ...tea.ProgramOption) *Picker {
	return &Picker{options: options}
}

// Choose blocks until the player selects an item or cancels.
func (p *Picker) Choose(ctx context.Context, title string, items []string, defaultIndex int) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}, p.options...)

	finalModel, err := tea.NewProgram(NewPickerModel(title, items, defaultIndex), opts...).Run()
	if err != nil {
		return "", err
	}

	pm, ok := finalModel.(PickerModel)
	if !ok {
		return "", ErrUnexpectedModel
	}
	if pm.IsCancelled() {
		return "", ErrPickCancelled
	}

	chosen, ok := pm.Result()
	if !ok {
		return "", ErrPickCancelled
	}
	return chosen, nil
}
