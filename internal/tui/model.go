package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resolver/internal/domain"
)

// LauncherPort is the TUI-facing subset of the launcher service.
type LauncherPort interface {
	Query(ctx context.Context, query string) ([]domain.Suggestion, error)
}

// ReloadMsg asks the model to resolve the current query again, e.g. after
// the record store changed on disk.
type ReloadMsg struct{}

// Model is the Bubble Tea model for the launcher.
type Model struct {
	service    LauncherPort
	input      textinput.Model
	viewport   viewport.Model
	results    []domain.Suggestion
	maxResults int
	status     string
	cursor     int
	ready      bool
	selected   *domain.Suggestion
}

// New creates a new TUI model instance.
func New(service LauncherPort, maxResults int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "alias, mailbox, domain or contact, then a command"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{service: service, input: ti, viewport: vp, maxResults: maxResults}
	m.refresh()
	return m
}

// Selected returns the suggestion chosen with enter, if any.
func (m Model) Selected() (domain.Suggestion, bool) {
	if m.selected == nil {
		return domain.Suggestion{}, false
	}
	return *m.selected, true
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResults())
		return m, nil
	case ReloadMsg:
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if len(m.results) == 0 {
				return m, nil
			}
			s := m.results[m.cursor]
			if !s.Actionable {
				m.status = "Not actionable: complete the command first"
				return m, nil
			}
			m.selected = &s
			return m, tea.Quit
		case "tab":
			if len(m.results) > 0 && m.results[m.cursor].Autocomplete != "" {
				m.input.SetValue(m.results[m.cursor].Autocomplete + " ")
				m.input.CursorEnd()
				m.refresh()
			}
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderResults())
			}
			return m, nil
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderResults())
			}
			return m, nil
		}
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// refresh resolves the current input; the launcher re-resolves on every keystroke.
func (m *Model) refresh() {
	q := m.input.Value()
	res, err := m.service.Query(context.Background(), q)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		if m.maxResults > 0 && len(res) > m.maxResults {
			res = res[:m.maxResults]
		}
		m.results = res
		m.status = fmt.Sprintf("%d suggestions", len(res))
	}
	m.cursor = 0
	m.viewport.SetContent(m.renderResults())
}

// View renders the TUI layout and current results.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Alias Launcher")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return "No matches."
	}
	var b strings.Builder
	for i, s := range m.results {
		title := s.DisplayName
		if !s.Actionable {
			title = dimStyle.Render(title)
		}
		line := fmt.Sprintf("%-8s %s", string(s.Type), title)
		sub := subtitleStyle.Render("  " + strings.TrimSpace(s.Subtitle))
		if i == m.cursor {
			line = highlightStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n" + sub + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
