package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"overviewly/internal/core"
	"overviewly/internal/generate"
)

// NewTestAPICmd creates the test-api command for checking provider
// connectivity without generating anything.
func NewTestAPICmd() *cobra.Command {
	var (
		provider string
		apiKey   string
	)

	cmd := &cobra.Command{
		Use:   "test-api",
		Short: "Test connectivity to the configured LLM provider",
		Long: `Send a minimal request to the provider to confirm the API key works.

Examples:
  # Test the configured provider
  overviewly test-api

  # Test a specific provider and key
  overviewly test-api --provider openai --api-key sk-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestAPI(cmd.Context(), provider, apiKey)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini or openai (default from config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key override for this call")

	return cmd
}

func runTestAPI(ctx context.Context, provider, apiKey string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	providerID := core.ProviderID(provider)
	if providerID == "" {
		providerID = cfg.Provider()
	}

	if err := generate.TestConnection(ctx, cfg, providerID, apiKey); err != nil {
		return fmt.Errorf("connection test failed for %s: %w", providerID, err)
	}

	fmt.Printf("Connection to %s succeeded\n", providerID)
	return nil
}
