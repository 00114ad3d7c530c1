package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"overviewly/internal/core"
	"overviewly/internal/generate"
	"overviewly/internal/render"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		provider    string
		apiKey      string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Generate an article about a topic and store it as a draft",
		Long: `Generate an AI-overview-optimized article about a topic.

The configured provider is prompted with a content-type-specific template,
the response is normalized into a titled HTML article, and the result is
stored with its generation metadata.

Examples:
  # Generate with the configured defaults
  overviewly generate "indoor composting"

  # Pick a content type
  overviewly generate "setting up a home VPN" --content-type howto

  # Override the provider and key for one call
  overviewly generate "solar panels" --provider openai --api-key sk-...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), args[0], provider, apiKey, contentType)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini or openai (default from config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key override for this call")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type: faq, howto, comparison, listicle or generic (default from config)")

	return cmd
}

func runGenerate(ctx context.Context, topic, provider, apiKey, contentType string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	gen, err := newGenerator(cfg, st)
	if err != nil {
		return err
	}

	articleID, err := gen.Generate(ctx, topic, generate.Options{
		Provider:    core.ProviderID(provider),
		APIKey:      apiKey,
		ContentType: core.ContentType(contentType),
	})
	if err != nil {
		return err
	}

	article, err := st.GetArticle(articleID)
	if err != nil {
		return err
	}

	fmt.Printf("Created article %s\n", articleID)
	if article != nil {
		fmt.Printf("  Title:  %s\n", article.Title)
		fmt.Printf("  Status: %s\n", article.Status)
		fmt.Printf("  View:   %s\n", render.Permalink(cfg, articleID))
	}
	return nil
}
