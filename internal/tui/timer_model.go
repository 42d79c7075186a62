package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/parser"
)

// timerKeyMap defines the timer's key bindings.
type timerKeyMap struct {
	Stop  key.Binding
	Leave key.Binding
	Quit  key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Leave, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var timerKeys = timerKeyMap{
	Stop: key.NewBinding(
		key.WithKeys("s", "S"),
		key.WithHelp("s", "stop & save"),
	),
	Leave: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc/q", "exit (keep running)"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}

// TimerModel represents the TUI model for a running study session
type TimerModel struct {
	width   int
	height  int
	session *models.StudySession
	project string

	now         func() time.Time
	elapsedTime time.Duration

	// Animation state
	timerAnimation int

	help help.Model

	// UI state
	stopping bool // user pressed S: clock out after the program exits
	exiting  bool // user pressed esc/q: leave the session running
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// NewTimerModel creates a timer for an active session.
func NewTimerModel(session *models.StudySession, projectName string) TimerModel {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))

	m := TimerModel{
		session: session,
		project: projectName,
		now:     time.Now,
		help:    h,
	}
	m.elapsedTime = session.Duration(m.now())
	return m
}

// Stopping reports whether the user asked to clock out.
func (m TimerModel) Stopping() bool { return m.stopping }

// Exiting reports whether the user left the session running.
func (m TimerModel) Exiting() bool { return m.exiting }

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsedTime = m.session.Duration(m.now())
		if m.done() {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, timerKeys.Stop):
			m.stopping = true
			return m, tea.Quit
		case key.Matches(msg, timerKeys.Leave), key.Matches(msg, timerKeys.Quit):
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(timerKeys))

	contentHeight := m.height - lipgloss.Height(helpBar) - 1

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTimerPanel(m.width, contentHeight),
		helpBar,
	)
}

// renderTimerPanel renders the centered timer panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(fmt.Sprintf("%s  STUDYING  %s", animChar, animChar)))

	idStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, idStyle.Render(fmt.Sprintf("session #%d · project #%d", m.session.ID, m.session.ProjectID)))

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, titleStyle.Render(truncate(m.project, width-4)))

	if m.session.Description != nil && *m.session.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, descStyle.Render(truncate(*m.session.Description, width-4)))
	}

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsedTime), "\n") {
		clock = append(clock, lipgloss.NewStyle().Align(lipgloss.Center).Width(width).Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	sessionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	started := m.session.StartTime.Local().Format("15:04:05")
	components = append(components, sessionStyle.Render("Started at "+started))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// bigDigits holds 5x5 ASCII art for the clock.
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders the elapsed time as ASCII art; hours are
// omitted under one hour.
func renderBigClock(d time.Duration) string {
	timeStr := parser.FormatClock(d)
	if d < time.Hour {
		timeStr = timeStr[3:]
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		art, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}
