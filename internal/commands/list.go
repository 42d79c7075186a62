package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/db"
	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/parser"
)

const logTimeLayout = "2006-01-02 15:04"

func (a *app) logCmd() *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"ls", "list"},
		Short:   "List study sessions",
		Long:    "List study sessions, most recent first, optionally for one project",
		Args:    cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()

			var (
				sessions []models.StudySession
				err      error
			)
			if projectID > 0 {
				sessions, err = store.ListSessionsForProject(ctx, projectID)
			} else {
				sessions, err = store.ListSessions(ctx)
			}
			if err != nil {
				return fmt.Errorf("fetching sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found. Use 'studytrack start <project-id>' to start studying.")
				return nil
			}

			projects, err := store.ListProjects(ctx)
			if err != nil {
				return fmt.Errorf("fetching projects: %w", err)
			}
			names := make(map[int64]string, len(projects))
			for _, p := range projects {
				names[p.ID] = p.Name
			}

			now := time.Now()
			var total time.Duration
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				end := activeStyle.Render("running")
				if s.EndTime != nil {
					end = s.EndTime.Local().Format(logTimeLayout)
				}
				desc := ""
				if s.Description != nil {
					desc = truncate(*s.Description, 40)
				}
				total += s.Duration(now)
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					truncate(names[s.ProjectID], 20),
					s.StartTime.Local().Format(logTimeLayout),
					end,
					parser.FormatDuration(s.Duration(now)),
					desc,
				})
			}

			printTable(out, []string{"ID", "PROJECT", "START", "END", "DURATION", "DESCRIPTION"}, rows)
			noun := "sessions"
			if len(sessions) == 1 {
				noun = "session"
			}
			fmt.Fprintf(out, "\n%d %s, %s total\n", len(sessions), noun, parser.FormatDuration(total))
			return nil
		}),
	}

	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Only show sessions of this project")
	return cmd
}

// truncate shortens s to at most n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
