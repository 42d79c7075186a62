package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/tui"
)

func helpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show comprehensive help for studytrack",
		Long:  `Display detailed help for all studytrack commands and flags.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), customHelp())
		},
	}
}

func customHelp() string {
	logo := lipgloss.NewStyle().
		Foreground(lipgloss.Color(tui.ColorAccentMain)).
		Bold(true).
		Render("studytrack - study time tracker")

	return "\n" + logo + `

COMMANDS:

  project add <name>        Create a project
  project ls                List projects with total study time
  project rename <id> <n>   Rename a project
  project rm <id>           Delete a project and all its sessions

  start <project-id>        Clock in and open the live timer
    -d, --description       What you are studying
    --no-ui                 Start without interactive timer

    Timer keys:
      s             Stop & save (clock out)
      esc/q         Exit, keep the session running

  stop                      Clock out of the running session
  status                    Show the running session

  log                       List sessions, most recent first
    -p, --project           Only one project

  add <project-id>          Log a past session
    --from, --to            Session bounds
    -d, --description       What you studied
    --no-ui                 Skip the interactive form

    Time formats:
      2024-01-01T10:00:00Z  RFC3339
      15/12/2024 09:30      dd/mm/yyyy HH:MM, local time
      09:30                 Today at HH:MM
      90 minutes ago        N minutes/hours ago
      now

  edit <session-id>         Edit a session (same flags as add, plus -p)
  rm <session-id>           Delete a session

  serve                     Run the HTTP API
    --addr                  Listen address

GLOBAL FLAGS:
  --config <file>           YAML config file
  --db <file>               SQLite database (also STUDYTRACK_DB_PATH)

`
}
