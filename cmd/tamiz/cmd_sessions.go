package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tamiz/internal/session"
)

var statusColors = map[string]func(format string, a ...interface{}) string{
	session.StatusIdle:      color.New(color.Faint).SprintfFunc(),
	session.StatusStreaming: color.New(color.FgYellow).SprintfFunc(),
	session.StatusCompleted: color.New(color.FgGreen).SprintfFunc(),
	session.StatusFailed:    color.New(color.FgRed).SprintfFunc(),
}

func newSessionsCmd() *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sm, _, err := buildEngine()
			if err != nil {
				return err
			}

			sessions, total, err := sm.List(page, pageSize)
			if err != nil {
				return err
			}
			if total == 0 {
				fmt.Println("No sessions yet.")
				return nil
			}

			for _, s := range sessions {
				paint, ok := statusColors[s.Status]
				if !ok {
					paint = fmt.Sprintf
				}
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("%s  %s  %s  %s\n",
					s.ID[:8],
					paint("%-10s", s.Status),
					s.LastUpdated.Format("2006-01-02 15:04"),
					title,
				)
			}
			fmt.Printf("\n%d of %d sessions (page %d)\n", len(sessions), total, page)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "page number")
	cmd.Flags().IntVarP(&pageSize, "page-size", "n", 20, "sessions per page")

	return cmd
}
