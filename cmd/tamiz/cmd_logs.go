package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tamiz/internal/formatter"
	"tamiz/internal/logs"
	"tamiz/internal/session"
)

func newLogsCmd() *cobra.Command {
	var (
		entryType string
		source    string
		role      string
		since     string
		until     string
		search    string
		format    string
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "logs [session-id]",
		Short: "Inspect a session's audit transcript",
		Long: `Logs prints the audit transcript of a session (the most recent one
when no ID is given), optionally filtered by entry type, source vocabulary,
role, time window, or a content search.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sm, _, err := buildEngine()
			if err != nil {
				return err
			}

			var sess *session.Session
			if len(args) == 1 {
				sess, err = sm.Load(args[0])
			} else {
				sess, err = sm.GetLatest()
			}
			if err != nil {
				return err
			}

			filter := &logs.Filter{
				Type:   entryType,
				Source: source,
				Role:   role,
				Search: search,
			}
			if since != "" {
				if filter.Since, err = parseWhen(since); err != nil {
					return err
				}
			}
			if until != "" {
				if filter.Until, err = parseWhen(until); err != nil {
					return err
				}
			}

			entries, err := logs.ReadAuditFile(sm.AuditPath(sess), filter)
			if err != nil {
				return err
			}

			if summary {
				s := logs.Summarize(entries, sess)
				fmt.Printf("Session:  %s (%s)\n", s.SessionID, s.Title)
				fmt.Printf("Status:   %s\n", s.Status)
				fmt.Printf("Duration: %s (%s .. %s)\n", s.Duration,
					s.FirstEntry.Format(time.RFC3339), s.LastEntry.Format(time.RFC3339))
				fmt.Printf("Entries:  %d total, %d prompts, %d chunks\n",
					s.TotalEntries, s.PromptCount, s.ChunkCount)
				for vocab, n := range s.BlockCounts {
					fmt.Printf("  %s blocks: %d\n", vocab, n)
				}
				return nil
			}

			switch format {
			case "html":
				hf := &formatter.HtmlFormatter{}
				for _, e := range entries {
					fmt.Println(hf.Format(e))
				}
			default:
				af := formatter.NewAnsiFormatter()
				for _, e := range entries {
					fmt.Println(af.Format(e))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "", "filter by entry type (llm_chunk, tag_block, ...)")
	cmd.Flags().StringVar(&source, "source", "", "filter by source (vocabulary or client name)")
	cmd.Flags().StringVar(&role, "role", "", "filter by role (user, assistant, system)")
	cmd.Flags().StringVar(&since, "since", "", "only entries at or after this RFC3339 time")
	cmd.Flags().StringVar(&until, "until", "", "only entries at or before this RFC3339 time")
	cmd.Flags().StringVar(&search, "search", "", "only entries whose content contains this text")
	cmd.Flags().StringVar(&format, "format", "ansi", "output format: ansi or html")
	cmd.Flags().BoolVar(&summary, "summary", false, "print per-session statistics instead of entries")

	return cmd
}

func parseWhen(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q (want RFC3339): %w", s, err)
	}
	return t, nil
}
