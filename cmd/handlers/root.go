package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"overviewly/internal/config"
	"overviewly/internal/generate"
	"overviewly/internal/store"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "overviewly",
		Short: "Overviewly generates AI-overview-ready articles with structured data.",
		Long: `Overviewly is a CLI tool for generating articles optimized for AI
overviews. It prompts an LLM provider (Gemini or OpenAI) for structured
content on a topic, normalizes the response into a titled HTML article,
stores it as a draft, and derives schema.org JSON-LD for rendering.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.overviewly.yaml)")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewTestAPICmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the document store at the configured directory.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.NewStore(cfg.Store.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// newGenerator wires a generator for CLI use. The invoking user is recorded
// as the author of record when the configured author name resolves to no
// stored user.
func newGenerator(cfg *config.Config, st *store.Store) (*generate.Generator, error) {
	acting, err := st.EnsureUser("admin", "Admin")
	if err != nil {
		return nil, fmt.Errorf("failed to ensure acting user: %w", err)
	}

	return &generate.Generator{
		Config:     cfg,
		Store:      st,
		ActingUser: acting,
	}, nil
}
