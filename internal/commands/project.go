package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/db"
	"github.com/balkashynov/studytrack/internal/models"
	"github.com/balkashynov/studytrack/internal/parser"
)

func (a *app) projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
		Long: `Create, list, rename and delete projects.

Deleting a project also deletes all of its study sessions.

Examples:
  studytrack project add "Algorithms"
  studytrack project ls
  studytrack project rename 1 "Advanced Algorithms"
  studytrack project rm 1`,
	}

	cmd.AddCommand(
		a.projectAddCmd(),
		a.projectListCmd(),
		a.projectRenameCmd(),
		a.projectRemoveCmd(),
	)
	return cmd
}

func (a *app) projectAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			name, err := models.ProjectInput{Name: strings.Join(args, " ")}.Normalize()
			if err != nil {
				return err
			}
			project, err := store.CreateProject(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Created project \"%s\" - ID: %d\n", project.Name, project.ID)
			return nil
		}),
	}
}

func (a *app) projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects with their total study time",
		Args:    cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			projects, err := store.ListProjectsWithSessions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects yet. Use 'studytrack project add <name>' to create one.")
				return nil
			}

			now := time.Now()
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				var total time.Duration
				running := false
				for _, s := range p.Sessions {
					total += s.Duration(now)
					running = running || s.Active()
				}
				totalStr := parser.FormatDuration(total)
				if running {
					totalStr += " " + activeStyle.Render("●")
				}
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					strconv.Itoa(len(p.Sessions)),
					totalStr,
				})
			}
			printTable(out, []string{"ID", "NAME", "SESSIONS", "TOTAL"}, rows)
			return nil
		}),
	}
}

func (a *app) projectRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			name, err := models.ProjectInput{Name: strings.Join(args[1:], " ")}.Normalize()
			if err != nil {
				return err
			}

			rows, err := store.UpdateProject(cmd.Context(), id, name)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("project #%d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✏️  Renamed project #%d to \"%s\"\n", id, name)
			return nil
		}),
	}
}

func (a *app) projectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project and its sessions",
		Args:    cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			rows, err := store.DeleteProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("project #%d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted project #%d\n", id)
			return nil
		}),
	}
}
