package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/db"
	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/tui"
)

func (a *app) editCmd() *cobra.Command {
	var (
		flags     sessionFlags
		projectID int64
	)

	cmd := &cobra.Command{
		Use:   "edit <session-id>",
		Short: "Edit an existing session",
		Long: `Edit an existing session.

Opens the same form as 'studytrack add' pre-filled with the session's
current values. With --no-ui, flags replace the values they name and the
rest are kept.

Editing a running session closes it, since an edited session always has
an end time.

Usage:
  studytrack edit 42
  studytrack edit 42 --no-ui --to "15:30" -d "recursion"`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()
			id, err := parseID("session", args[0])
			if err != nil {
				return err
			}

			existing, err := store.GetSession(ctx, id)
			if err != nil {
				return err
			}

			// Pre-fill from the stored session
			current := sessionFlags{
				from: existing.StartTime.Format(time.RFC3339Nano),
				to:   "now",
			}
			if existing.EndTime != nil {
				current.to = existing.EndTime.Format(time.RFC3339Nano)
			}
			if existing.Description != nil {
				current.description = *existing.Description
			}
			if flags.from != "" {
				current.from = flags.from
			}
			if flags.to != "" {
				current.to = flags.to
			}
			if cmd.Flags().Changed("description") {
				current.description = flags.description
			}
			if projectID <= 0 {
				projectID = existing.ProjectID
			}

			var in *models.ManualSession
			if flags.noUI {
				in, err = current.build(projectID, time.Now())
			} else {
				in, err = tui.RunSessionFormTUI(ctx, fmt.Sprintf("Edit session #%d", id), tui.SessionFormValues{
					ProjectID:   strconv.FormatInt(projectID, 10),
					From:        current.from,
					To:          current.to,
					Description: current.description,
				})
				if err == nil && in == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "❌ Edit cancelled.")
					return nil
				}
			}
			if err != nil {
				return err
			}

			rows, err := store.UpdateSession(ctx, id, *in)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("session #%d not found", id)
			}
			updated, err := store.GetSession(ctx, id)
			if err != nil {
				return err
			}
			if existing.Active() {
				fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("Session was running and is now closed."))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated session #%d: %s → %s\n",
				updated.ID,
				updated.StartTime.Local().Format(logTimeLayout),
				updated.EndTime.Local().Format(logTimeLayout))
			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Move the session to another project")
	return cmd
}
