// Package picker implements the interactive table chooser behind --pick.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/schemagen/internal/theme"
)

// ErrAborted is returned by Run when the user leaves without confirming.
var ErrAborted = errors.New("picker: aborted")

type tableItem string

func (i tableItem) FilterValue() string { return string(i) }

// delegate renders one table per line with a checkbox.
type delegate struct {
	selected map[string]bool
	th       *theme.Theme
}

func (d delegate) Height() int                         { return 1 }
func (d delegate) Spacing() int                        { return 0 }
func (d delegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	name := string(item.(tableItem))
	box := "[ ]"
	if d.selected[name] {
		box = "[x]"
	}
	line := box + " " + name
	if index == m.Index() {
		fmt.Fprint(w, d.th.Selected.Render("> "+line))
		return
	}
	fmt.Fprint(w, d.th.Item.Render("  "+line))
}

// Model is the bubbletea model for choosing tables.
type Model struct {
	list     list.Model
	tables   []string
	selected map[string]bool
	done     bool
	aborted  bool
}

// New creates a picker over tables using th for rendering.
func New(tables []string, th *theme.Theme) Model {
	if th == nil {
		th = theme.Default()
	}
	selected := make(map[string]bool, len(tables))
	items := make([]list.Item, len(tables))
	for i, name := range tables {
		items[i] = tableItem(name)
	}

	l := list.New(items, delegate{selected: selected, th: th}, 40, 20)
	l.Title = "Tables"
	l.Styles.Title = th.Heading
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		}
	}

	return Model{
		list:     l,
		tables:   tables,
		selected: selected,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
		// While a filter is being typed every key belongs to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case " ", "space":
			if item, ok := m.list.SelectedItem().(tableItem); ok {
				name := string(item)
				if m.selected[name] {
					delete(m.selected, name)
				} else {
					m.selected[name] = true
				}
			}
			return m, nil
		case "a":
			m.toggleAll()
			return m, nil
		case "enter":
			if len(m.selected) == 0 {
				if item, ok := m.list.SelectedItem().(tableItem); ok {
					m.selected[string(item)] = true
				}
			}
			m.done = true
			return m, tea.Quit
		case "q", "esc":
			if m.list.FilterState() == list.FilterApplied && msg.String() == "esc" {
				break
			}
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) toggleAll() {
	if len(m.selected) == len(m.tables) {
		clear(m.selected)
		return
	}
	for _, name := range m.tables {
		m.selected[name] = true
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen tables in list order.
func (m Model) Selected() []string {
	var out []string
	for _, name := range m.tables {
		if m.selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Aborted reports whether the user left without confirming.
func (m Model) Aborted() bool { return m.aborted }

// Run shows the picker on stderr and returns the confirmed tables.
func Run(ctx context.Context, tables []string, th *theme.Theme) ([]string, error) {
	if len(tables) == 0 {
		return nil, errors.New("picker: no tables to choose from")
	}
	p := tea.NewProgram(New(tables, th),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	m := final.(Model)
	if m.Aborted() {
		return nil, ErrAborted
	}
	return m.Selected(), nil
}
