package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/parser"
)

// Field indexes into the form inputs.
const (
	FieldProject = iota
	FieldFrom
	FieldTo
	FieldDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{"Project ID", "From", "To", "Description"}

// SessionFormValues pre-fills the form. Times are free text for the parser.
type SessionFormValues struct {
	ProjectID   string
	From        string
	To          string
	Description string
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var formKeys = formKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next / save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// SessionFormModel collects a manual session interactively.
type SessionFormModel struct {
	title  string
	inputs []textinput.Model
	focus  int
	width  int
	help   help.Model
	now    func() time.Time

	validationErr string
	result        *models.ManualSession
	cancelled     bool
}

// NewSessionFormModel builds a form with the given heading and values.
func NewSessionFormModel(title string, values SessionFormValues) SessionFormModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[FieldProject].Placeholder = "numeric project id (required)"
	inputs[FieldProject].CharLimit = 19
	inputs[FieldFrom].Placeholder = "dd/mm/yyyy HH:MM, HH:MM, 2 hours ago (required)"
	inputs[FieldFrom].CharLimit = 40
	inputs[FieldTo].Placeholder = "same formats, or now (required)"
	inputs[FieldTo].CharLimit = 40
	inputs[FieldDescription].Placeholder = "what did you study? (Enter to skip)"
	inputs[FieldDescription].CharLimit = 500

	inputs[FieldProject].SetValue(values.ProjectID)
	inputs[FieldFrom].SetValue(values.From)
	inputs[FieldTo].SetValue(values.To)
	inputs[FieldDescription].SetValue(values.Description)
	inputs[FieldProject].Focus()

	return SessionFormModel{
		title:  title,
		inputs: inputs,
		help:   help.New(),
		now:    time.Now,
	}
}

// Result returns the submitted session, or nil if the form was cancelled.
func (m SessionFormModel) Result() *models.ManualSession { return m.result }

// Cancelled reports whether the user backed out.
func (m SessionFormModel) Cancelled() bool { return m.cancelled }

// Init initializes the model
func (m SessionFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m SessionFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		inputWidth := min(max(msg.Width-24, 20), 60)
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, formKeys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, formKeys.Next):
			return m.setFocus(m.focus + 1)
		case key.Matches(msg, formKeys.Prev):
			return m.setFocus(m.focus - 1)
		case key.Matches(msg, formKeys.Submit):
			if m.focus < fieldCount-1 {
				return m.setFocus(m.focus + 1)
			}
			session, err := m.parse()
			if err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
			m.result = session
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m SessionFormModel) setFocus(i int) (tea.Model, tea.Cmd) {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, textinput.Blink
}

// parse turns the field values into a validated session.
func (m SessionFormModel) parse() (*models.ManualSession, error) {
	now := m.now()

	projectID, err := strconv.ParseInt(strings.TrimSpace(m.inputs[FieldProject].Value()), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("project id must be a number")
	}
	from, err := parser.ParseTime(m.inputs[FieldFrom].Value(), now)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := parser.ParseTime(m.inputs[FieldTo].Value(), now)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	session := &models.ManualSession{
		ProjectID: projectID,
		StartTime: models.NewTimestamp(from),
		EndTime:   models.NewTimestamp(to),
	}
	if desc := strings.TrimSpace(m.inputs[FieldDescription].Value()); desc != "" {
		session.Description = &desc
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

// View renders the form
func (m SessionFormModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	for i, input := range m.inputs {
		labelColor := ColorSecondaryText
		if i == m.focus {
			labelColor = ColorAccentBright
		}
		label := lipgloss.NewStyle().
			Foreground(lipgloss.Color(labelColor)).
			Bold(i == m.focus).
			Width(14).
			Render(fieldLabels[i])
		b.WriteString(label + input.View() + "\n")
	}

	if m.validationErr != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + m.validationErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(formKeys))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Render(b.String())
}
