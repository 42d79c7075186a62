package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studytrack/internal/models"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSession(start time.Time) *models.StudySession {
	return &models.StudySession{ID: 7, ProjectID: 2, StartTime: models.NewTimestamp(start)}
}

func TestTimerModelStop(t *testing.T) {
	m := NewTimerModel(testSession(time.Now()), "Algorithms")

	next, cmd := m.Update(keyPress("s"))
	tm := next.(TimerModel)
	assert.True(t, tm.Stopping())
	assert.False(t, tm.Exiting())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTimerModelLeaveRunning(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m := NewTimerModel(testSession(time.Now()), "Algorithms")
			next, cmd := m.Update(keyPress(k))
			tm := next.(TimerModel)
			assert.True(t, tm.Exiting())
			assert.False(t, tm.Stopping())
			require.NotNil(t, cmd)
		})
	}
}

func TestTimerModelTick(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewTimerModel(testSession(start), "Algorithms")
	m.now = func() time.Time { return start.Add(65 * time.Minute) }

	next, cmd := m.Update(timerTickMsg{})
	tm := next.(TimerModel)
	assert.Equal(t, 65*time.Minute, tm.elapsedTime)
	assert.NotNil(t, cmd, "keeps ticking while running")

	tm.stopping = true
	_, cmd = tm.Update(timerTickMsg{})
	assert.Nil(t, cmd)
}

func TestTimerModelView(t *testing.T) {
	desc := "graphs"
	session := testSession(time.Now())
	session.Description = &desc
	m := NewTimerModel(session, "Algorithms")
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := next.View()
	assert.Contains(t, view, "Algorithms")
	assert.Contains(t, view, "graphs")
	assert.Contains(t, view, "stop & save")
}

func TestRenderBigClock(t *testing.T) {
	short := renderBigClock(5 * time.Minute)
	long := renderBigClock(2 * time.Hour)
	assert.Len(t, strings.Split(short, "\n"), 5)
	assert.Greater(t, len(long), len(short), "hours are shown once reached")
}

func fill(m SessionFormModel, keys ...string) SessionFormModel {
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(SessionFormModel)
	}
	return m
}

func TestSessionFormSubmit(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewSessionFormModel("Add session", SessionFormValues{
		ProjectID: "3",
		From:      "2024-01-01T10:00:00Z",
		To:        "2024-01-01T11:30:00Z",
	})
	m.now = func() time.Time { return now }

	m = fill(m, "enter", "enter", "enter", "heaps", "enter")
	require.NotNil(t, m.Result(), m.validationErr)
	assert.False(t, m.Cancelled())

	got := m.Result()
	assert.Equal(t, int64(3), got.ProjectID)
	assert.True(t, got.StartTime.Time.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, got.EndTime.Time.Equal(time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC)))
	require.NotNil(t, got.Description)
	assert.Equal(t, "heaps", *got.Description)
}

func TestSessionFormValidation(t *testing.T) {
	m := NewSessionFormModel("Add session", SessionFormValues{
		ProjectID: "3",
		From:      "11:00",
		To:        "10:00",
	})

	m = fill(m, "shift+tab", "enter")
	assert.Nil(t, m.Result())
	assert.Contains(t, m.validationErr, "end_time is before start_time")

	m = NewSessionFormModel("Add session", SessionFormValues{ProjectID: "abc", From: "now", To: "now"})
	m = fill(m, "shift+tab", "enter")
	assert.Nil(t, m.Result())
	assert.Contains(t, m.validationErr, "project id")
}

func TestSessionFormCancel(t *testing.T) {
	m := fill(NewSessionFormModel("Add session", SessionFormValues{}), "esc")
	assert.True(t, m.Cancelled())
	assert.Nil(t, m.Result())
}
