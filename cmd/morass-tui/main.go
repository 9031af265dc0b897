package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwmuni/morass-web/pkg/logging"
	"github.com/mwmuni/morass-web/pkg/web"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Pause  key.Binding
	Step   key.Binding
	Grow   key.Binding
	Inject key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Step: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "single step"),
	),
	Grow: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "grow edges"),
	),
	Inject: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "inject charge"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Grow, k.Inject, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Grow, k.Inject},
		{k.Up, k.Down, k.Quit},
	}
}

type model struct {
	web        *web.Web
	nodeTable  table.Model
	help       help.Model
	keys       keyMap
	paused     bool
	message    string
	width      int
	height     int
	startTime  time.Time
	growCount  int
	growTries  int
	injectAmt  float64
	tickPeriod time.Duration
}

type tickMsg time.Time

func tickCmd(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(w *web.Web, growCount, growTries int, injectAmt float64, period time.Duration) model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Charge", Width: 12},
		{Title: "Cooldown", Width: 10},
		{Title: "Idle", Width: 8},
		{Title: "Out", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		web:        w,
		nodeTable:  t,
		help:       help.New(),
		keys:       keys,
		startTime:  time.Now(),
		growCount:  growCount,
		growTries:  growTries,
		injectAmt:  injectAmt,
		tickPeriod: period,
	}
	m.refreshTable()
	return m
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.tickPeriod)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		if !m.paused {
			m.web.Step(false)
			m.web.Grow(m.growCount, m.growTries)
			m.refreshTable()
		}
		return m, tickCmd(m.tickPeriod)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused

		case key.Matches(msg, m.keys.Step):
			m.web.Step(false)
			m.refreshTable()
			m.message = "stepped once"

		case key.Matches(msg, m.keys.Grow):
			added := m.web.Grow(m.growCount, m.growTries)
			m.refreshTable()
			m.message = fmt.Sprintf("grew %d edges", added)

		case key.Matches(msg, m.keys.Inject):
			m.injectSelected()
		}
	}

	m.nodeTable, cmd = m.nodeTable.Update(msg)
	return m, cmd
}

// injectSelected adds the configured amount to the node under the cursor.
func (m *model) injectSelected() {
	row := m.nodeTable.SelectedRow()
	if row == nil {
		return
	}
	var id int
	if _, err := fmt.Sscanf(row[0], "%d", &id); err != nil {
		return
	}
	if err := m.web.InjectNode(id-1, m.injectAmt); err != nil {
		m.message = err.Error()
		return
	}
	m.refreshTable()
	m.message = fmt.Sprintf("injected %.1f into node %d", m.injectAmt, id)
}

// refreshTable rebuilds the node table, highest charge first.
func (m *model) refreshTable() {
	states := m.web.DumpNodes()
	sort.Slice(states, func(i, j int) bool {
		return states[i].Charge > states[j].Charge
	})

	rows := make([]table.Row, 0, len(states))
	for _, s := range states {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.ID),
			fmt.Sprintf("%.3f", s.Charge),
			fmt.Sprintf("%d", s.CooldownRemaining),
			fmt.Sprintf("%d", s.SinceLastFire),
			fmt.Sprintf("%d", s.OutDegree),
		})
	}
	m.nodeTable.SetRows(rows)
}

func (m model) View() string {
	stats := m.web.GetStatistics()

	state := runningStyle.Render("▶ running")
	if m.paused {
		state = pausedStyle.Render("⏸ paused")
	}

	statsBox := statsBoxStyle.Render(fmt.Sprintf(
		"Step: %d\nNodes: %d\nEdges: %d\nPulses: %d\nAdded: %d\nPruned: %d\nUptime: %s",
		stats.Steps,
		stats.NodeCount,
		stats.EdgeCount,
		stats.PulsesFired,
		stats.EdgesAdded,
		stats.EdgesPruned,
		time.Since(m.startTime).Round(time.Second),
	))

	body := lipgloss.JoinHorizontal(lipgloss.Top, statsBox, m.nodeTable.View())

	view := titleStyle.Render("🕸 Morass Web") + "  " + state + "\n\n" + body
	if m.message != "" {
		view += "\n" + helpStyle.Render(m.message)
	}
	view += "\n" + helpStyle.Render(m.help.View(m.keys))
	return view
}

func main() {
	nodes := flag.Int("nodes", 10, "Number of nodes")
	edges := flag.Int("edges", 20, "Number of bootstrap edges")
	growCount := flag.Int("grow", 5, "Edges requested per growth call")
	growTries := flag.Int("grow-tries", 1000, "Attempt budget per growth call")
	injectAmt := flag.Float64("inject", 10.0, "Charge injected with the i key")
	period := flag.Duration("period", 100*time.Millisecond, "Tick period")
	flag.Parse()

	w := web.MakeRandomWeb(*nodes, *edges, web.Options{
		Logger:   logging.NewNopLogger(),
		Policies: web.DefaultHealthPolicies(),
	})
	defer w.Close()

	p := tea.NewProgram(initialModel(w, *growCount, *growTries, *injectAmt, *period), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running TUI: %v\n", err)
		os.Exit(1)
	}
}
