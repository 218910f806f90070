package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"tamiz/internal/client"
	"tamiz/internal/config"
	"tamiz/internal/engine"
	"tamiz/internal/session"
)

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "tamiz",
		Short: "Stream LLM responses and sift tagged blocks out of them",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newFilterCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newLogsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildEngine loads configuration and assembles the engine with every
// configured client.
func buildEngine() (*engine.Engine, *session.Manager, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	sm := session.NewManager(cfg.StorageDir)

	clients := make(map[string]client.Client)
	for name, cc := range cfg.Clients {
		c, cerr := client.NewClient(name, cc.BinPath)
		if cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not init client %q: %v\n", name, cerr)
			continue
		}
		if len(cc.Models) > 0 {
			c.SetModels(cc.Models)
		}
		clients[name] = c
	}

	return engine.NewEngine(sm, clients, cfg.DefaultClient), sm, cfg, nil
}
