package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tamiz/internal/events"
	"tamiz/internal/formatter"
	"tamiz/internal/session"
)

func newRunCmd() *cobra.Command {
	var (
		clientName  string
		modelTier   string
		tags        []string
		includeTags bool
		resumeLast  bool
	)

	cmd := &cobra.Command{
		Use:   "run [prompt...]",
		Short: "Send a prompt to a client and stream the sifted response",
		Long: `Run sends a prompt to the configured LLM client and streams the
response to stdout. Tagged blocks (e.g. <plan>...</plan>) are extracted as
they close and rendered separately from the running text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, sm, cfg, err := buildEngine()
			if err != nil {
				return err
			}

			var sess *session.Session
			if resumeLast {
				sess, err = sm.GetLatest()
				if err != nil {
					return err
				}
			} else {
				cwd, _ := os.Getwd()
				sess, err = sm.Create(cwd, "")
				if err != nil {
					return err
				}
			}

			if clientName != "" {
				sess.Client = clientName
			} else if sess.Client == "" {
				sess.Client = cfg.DefaultClient
			}
			if modelTier != "" {
				sess.ModelTier = modelTier
			} else if sess.ModelTier == "" {
				sess.ModelTier = cfg.DefaultModelTier
			}
			if cmd.Flags().Changed("tags") {
				sess.Tags = tags
			} else if len(sess.Tags) == 0 {
				sess.Tags = cfg.Tags
			}
			if cmd.Flags().Changed("include-tags") {
				sess.IncludeTags = includeTags
			}
			if err := sm.Save(sess); err != nil {
				return err
			}

			prompt := strings.Join(args, " ")

			// Stream events to stdout.
			eventCh := events.GlobalBus.Subscribe()
			f := formatter.NewAnsiFormatter()
			done := make(chan struct{})

			go func() {
				defer close(done)
				for e := range eventCh {
					if e.SessionID != sess.ID || e.Type != events.EventAudit {
						continue
					}
					audit, ok := e.Payload.(events.AuditEntry)
					if !ok {
						continue
					}
					switch audit.Type {
					case events.AuditLLMChunk:
						fmt.Print(audit.Content)
					case events.AuditLLMResponse:
						fmt.Println()
					case events.AuditTagBlock, events.AuditStatus, events.AuditInfo:
						fmt.Println(f.Format(audit))
					}
				}
			}()

			eng.ExecutePrompt(sess, prompt)

			events.GlobalBus.Unsubscribe(eventCh)
			<-done

			// Reload to get final status.
			if updated, err := sm.Load(sess.ID); err == nil {
				sess = updated
			}
			if sess.Status == session.StatusFailed {
				return fmt.Errorf("session %s failed", sess.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&clientName, "client", "c", "", "client to use (gemini, claude-code)")
	cmd.Flags().StringVarP(&modelTier, "model-tier", "m", "", "model tier (high, medium, low)")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tag vocabularies to extract")
	cmd.Flags().BoolVar(&includeTags, "include-tags", false, "keep tag delimiters in the streamed text")
	cmd.Flags().BoolVarP(&resumeLast, "resume", "r", false, "continue the most recent session")

	return cmd
}
