package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tamiz/internal/stream"
)

func newFilterCmd() *cobra.Command {
	var (
		tags        []string
		includeTags bool
		unanchored  bool
		showBlocks  bool
	)

	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Filter tagged blocks out of a text stream",
		Long: `Filter reads text from a file (or stdin when no file is given),
removes tag delimiters for the configured vocabularies, and writes the
result to stdout. With --blocks, the extracted block contents are printed
to stderr as each block closes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			plugins := make([]*stream.Plugin, 0, len(tags))
			for _, name := range tags {
				p, err := stream.NewTagPlugin(name, includeTags)
				if err != nil {
					return err
				}
				p.Anchored = !unanchored
				if showBlocks {
					var block strings.Builder
					p.OnContent = func(r rune) { block.WriteRune(r) }
					vocab := name
					flush := func() {
						fmt.Fprintf(os.Stderr, "[%s] %s\n", vocab, block.String())
						block.Reset()
					}
					p.OnBlockEnd = flush
					p.OnUnterminated = flush
				}
				plugins = append(plugins, p)
			}

			adapter := stream.NewAdapter(func(kept string) {
				fmt.Print(kept)
			}, plugins...)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return adapter.Consume(ctx, stream.NewReaderSource(in))
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", stream.DefaultVocabularies, "tag vocabularies to extract")
	cmd.Flags().BoolVar(&includeTags, "include-tags", false, "keep tag delimiters in the output")
	cmd.Flags().BoolVar(&unanchored, "unanchored", false, "recognize opening tags anywhere, not just at line start")
	cmd.Flags().BoolVarP(&showBlocks, "blocks", "b", false, "print extracted block contents to stderr")

	return cmd
}
