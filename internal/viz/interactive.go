package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Launcher builds the live model for a named scenario.
type Launcher func(name string) (Model, error)

const (
	stateMenu = iota
	stateSim
)

// menu lists scenarios and hands over to the live model once one is
// picked. Esc in the live view is not intercepted; q quits the program.
type menu struct {
	state, cursor int
	names         []string
	info          map[string]string
	launch        Launcher
	live          Model
	err           error
}

// NewMenu returns a scenario picker. info holds optional one-line
// descriptions keyed by name.
func NewMenu(names []string, info map[string]string, launch Launcher) tea.Model {
	return menu{state: stateMenu, names: names, info: info, launch: launch}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.names) == 0 {
			return m, nil
		}
		live, err := m.launch(m.names[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.state, m.err = live, stateSim, nil
		return m, m.live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	title := fg(CurrentTheme.Primary).Bold(true)
	sub := fg(CurrentTheme.Muted)
	var b strings.Builder
	b.WriteString("\n\n    " + title.Render("ATOMSIM") + "\n    " + sub.Render("electron shell simulator") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.names {
		desc := m.info[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				fg(CurrentTheme.Accent).Bold(true).Render("▸"),
				fg(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-12s", name)),
				fg(CurrentTheme.Secondary).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-12s", name)), sub.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + fg(CurrentTheme.Bad).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + sub.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

// RunMenu runs the picker full screen.
func RunMenu(names []string, info map[string]string, launch Launcher) error {
	_, err := tea.NewProgram(NewMenu(names, info, launch), tea.WithAltScreen()).Run()
	return err
}
