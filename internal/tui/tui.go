package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/parser"
)

// SessionCloser clocks out a session and reads it back.
type SessionCloser interface {
	ClockOut(ctx context.Context, id int64) (int64, error)
	GetSession(ctx context.Context, id int64) (*models.StudySession, error)
}

// RunTimerTUI shows the live timer for an active session and clocks it out
// if the user stops it.
func RunTimerTUI(ctx context.Context, store SessionCloser, session *models.StudySession, projectName string, out io.Writer) error {
	p := tea.NewProgram(NewTimerModel(session, projectName), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(TimerModel)
	if !ok {
		return nil
	}

	switch {
	case m.Stopping():
		rows, err := store.ClockOut(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to stop session: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("session #%d was already clocked out", session.ID)
		}
		stopped, err := store.GetSession(ctx, session.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "⏹️  Stopped session #%d on %s\n", stopped.ID, projectName)
		fmt.Fprintf(out, "📊 Session duration: %s\n", parser.FormatDuration(stopped.Duration(time.Now())))
	case m.Exiting():
		fmt.Fprintf(out, "\n💡 Session #%d on %s is still running.\n", session.ID, projectName)
		fmt.Fprintln(out, "   Use 'studytrack status' to check it or 'studytrack stop' to clock out.")
	}
	return nil
}

// RunSessionFormTUI asks for a manual session. It returns nil if the user
// cancelled.
func RunSessionFormTUI(ctx context.Context, title string, values SessionFormValues) (*models.ManualSession, error) {
	p := tea.NewProgram(NewSessionFormModel(title, values), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := finalModel.(SessionFormModel); ok {
		return m.Result(), nil
	}
	return nil, nil
}
