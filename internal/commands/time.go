package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/db"
	"github.com/balkashynov/studytrack/internal/parser"
	"github.com/balkashynov/studytrack/internal/tui"
)

func (a *app) startCmd() *cobra.Command {
	var (
		description string
		noUI        bool
	)

	cmd := &cobra.Command{
		Use:   "start <project-id>",
		Short: "Clock in on a project",
		Long: `Start a study session on a project. Opens the interactive timer by default, use --no-ui for simple start.

Only one session can run at a time.

Examples:
  studytrack start 1                  # Start timer with interactive UI
  studytrack start 1 -d "chapter 4"   # Start with a description
  studytrack start 1 --no-ui          # Start timer without UI`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			projectID, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			var desc *string
			if description != "" {
				desc = &description
			}

			session, err := store.ClockIn(cmd.Context(), projectID, desc)
			if errors.Is(err, db.ErrConflict) {
				return errors.New("a session is already running; use 'studytrack stop' first")
			}
			if err != nil {
				return err
			}

			name := projectName(cmd.Context(), store, projectID)
			out := cmd.OutOrStdout()
			if noUI {
				fmt.Fprintf(out, "⏱️  Started session #%d on %s\n", session.ID, name)
				fmt.Fprintf(out, "Started at: %s\n", session.StartTime.Local().Format("15:04:05"))
				return nil
			}
			return tui.RunTimerTUI(cmd.Context(), store, session, name, out)
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What you are studying")
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "Start timer without interactive UI")
	return cmd
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Clock out of the running session",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			active, err := store.ActiveSession(cmd.Context())
			if err != nil {
				return err
			}
			if active == nil {
				return errors.New("no active study session")
			}

			rows, err := store.ClockOut(cmd.Context(), active.ID)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("session #%d was already clocked out", active.ID)
			}
			session, err := store.GetSession(cmd.Context(), active.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "⏹️  Stopped session #%d on %s\n", session.ID, projectName(cmd.Context(), store, session.ProjectID))
			fmt.Fprintf(out, "Session duration: %s\n", parser.FormatDuration(session.Duration(time.Now())))
			return nil
		}),
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			session, err := store.ActiveSession(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if session == nil {
				fmt.Fprintln(out, mutedStyle.Render("No active study session"))
				return nil
			}

			fmt.Fprintf(out, "⏱️  Currently studying: %s (session #%d)\n", projectName(cmd.Context(), store, session.ProjectID), session.ID)
			if session.Description != nil {
				fmt.Fprintf(out, "Description: %s\n", *session.Description)
			}
			fmt.Fprintf(out, "Started at: %s\n", session.StartTime.Local().Format("15:04:05"))
			fmt.Fprintf(out, "Elapsed time: %s\n", parser.FormatClock(session.Duration(time.Now())))
			return nil
		}),
	}
}
