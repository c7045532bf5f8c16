package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/demo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Run    key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Run:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

type modelState int

const (
	stateSelect modelState = iota
	stateFilter
	stateTranscript
)

const headerHeight = 3

type interactiveModel struct {
	err        error
	reg        *demo.Registry
	demos      []demo.Demo
	filter     textinput.Model
	transcript viewport.Model
	running    string
	selected   int
	width      int
	height     int
	state      modelState
}

type transcriptMsg struct {
	err  error
	name string
	text string
}

func newInteractiveModel(reg *demo.Registry) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "demo name"
	ti.Prompt = "/ "
	ti.Width = 30

	return &interactiveModel{
		reg:        reg,
		demos:      reg.All(),
		filter:     ti,
		transcript: viewport.New(80, 20),
		width:      80,
		height:     24,
		state:      stateSelect,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width
		m.transcript.Height = max(msg.Height-headerHeight-2, 1)
		return m, nil

	case transcriptMsg:
		m.running = msg.name
		m.err = msg.err
		m.transcript.SetContent(msg.text)
		m.transcript.GotoTop()
		m.state = stateTranscript
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilter:
			return m.updateFilter(msg)
		case stateTranscript:
			return m.updateTranscript(msg)
		default:
			return m.updateSelect(msg)
		}
	}

	return m, nil
}

func (m *interactiveModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, keys.Down):
		if m.selected < len(m.demos)-1 {
			m.selected++
		}

	case key.Matches(msg, keys.Filter):
		m.state = stateFilter
		return m, m.filter.Focus()

	case key.Matches(msg, keys.Back):
		m.filter.SetValue("")
		m.applyFilter()

	case key.Matches(msg, keys.Run):
		if len(m.demos) == 0 {
			return m, nil
		}
		return m, runDemo(m.demos[m.selected])
	}
	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filter.Blur()
		m.state = stateSelect
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) updateTranscript(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Run):
		m.state = stateSelect
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.demos = m.demos[:0]
	for _, d := range m.reg.All() {
		if q == "" || strings.Contains(d.Name, q) || strings.Contains(strings.ToLower(d.Title), q) {
			m.demos = append(m.demos, d)
		}
	}
	if m.selected >= len(m.demos) {
		m.selected = max(len(m.demos)-1, 0)
	}
}

func runDemo(d demo.Demo) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		err := d.Run(context.Background(), console.New(&buf, console.WithStyle(true)))
		return transcriptMsg{name: d.Name, text: buf.String(), err: err}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Language Concepts Tour"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.demos) == 0 {
			b.WriteString(helpStyle.Render("No demo matches the filter."))
			b.WriteString("\n")
		}
		for i, d := range m.demos {
			if i == m.selected {
				b.WriteString(selectedStyle.Render(fmt.Sprintf("> %-10s %s", d.Name, d.Title)))
			} else {
				b.WriteString("  " + nameStyle.Render(fmt.Sprintf("%-10s", d.Name)) + " " + d.Title)
			}
			b.WriteString("\n")
		}
		if len(m.demos) > 0 {
			b.WriteString("\n")
			b.WriteString(summaryStyle.Render(m.demos[m.selected].Summary))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • / filter • q quit"))

	case stateTranscript:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString(m.transcript.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%s • ↑/↓ scroll • esc back • q quit", m.running)))
	}

	return b.String()
}

func runInteractive(reg *demo.Registry) error {
	p := tea.NewProgram(newInteractiveModel(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
