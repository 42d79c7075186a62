package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/db"
	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/parser"
	"github.com/balkashynov/studytrack/internal/tui"
)

// sessionFlags holds the flags shared by add and edit.
type sessionFlags struct {
	from        string
	to          string
	description string
	noUI        bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Start time (RFC3339, dd/mm/yyyy HH:MM, HH:MM, N minutes ago, now)")
	cmd.Flags().StringVar(&f.to, "to", "", "End time (same formats as --from)")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "What you studied")
	cmd.Flags().BoolVar(&f.noUI, "no-ui", false, "Never open the interactive form")
}

// build parses the flag values into a validated manual session.
func (f *sessionFlags) build(projectID int64, now time.Time) (*models.ManualSession, error) {
	from, err := parser.ParseTime(f.from, now)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	to, err := parser.ParseTime(f.to, now)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}

	session := &models.ManualSession{
		ProjectID: projectID,
		StartTime: models.NewTimestamp(from),
		EndTime:   models.NewTimestamp(to),
	}
	if desc := strings.TrimSpace(f.description); desc != "" {
		session.Description = &desc
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

func (a *app) addCmd() *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "add [project-id]",
		Short: "Log a past study session",
		Long: `Log a study session that already happened.

Modes:
  Interactive: studytrack add (or leave out --from/--to)
  Quick: studytrack add <project-id> --from <time> --to <time>

Time formats:
  2024-01-01T10:00:00Z  - RFC3339
  15/12/2024 09:30      - dd/mm/yyyy HH:MM, local time
  09:30                 - today at HH:MM
  90 minutes ago        - N minutes/hours ago
  now`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			var projectID int64
			if len(args) == 1 {
				id, err := parseID("project", args[0])
				if err != nil {
					return err
				}
				projectID = id
			}

			var (
				in  *models.ManualSession
				err error
			)
			if flags.noUI || (projectID > 0 && flags.from != "" && flags.to != "") {
				in, err = flags.build(projectID, time.Now())
			} else {
				values := tui.SessionFormValues{From: flags.from, To: flags.to, Description: flags.description}
				if projectID > 0 {
					values.ProjectID = args[0]
				}
				in, err = tui.RunSessionFormTUI(cmd.Context(), "Log a study session", values)
				if err == nil && in == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "❌ Session not saved.")
					return nil
				}
			}
			if err != nil {
				return err
			}

			session, err := store.AddManualSession(cmd.Context(), *in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged session #%d on %s (%s)\n",
				session.ID,
				projectName(cmd.Context(), store, session.ProjectID),
				parser.FormatDuration(session.Duration(time.Now())))
			return nil
		}),
	}

	flags.register(cmd)
	return cmd
}
