package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/db"
)

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <session-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a study session",
		Args:    cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			id, err := parseID("session", args[0])
			if err != nil {
				return err
			}

			rows, err := store.DeleteSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("session #%d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted session #%d\n", id)
			return nil
		}),
	}
}
