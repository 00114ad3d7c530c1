package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"overviewly/internal/render"
)

// NewSchemaCmd creates the schema command for inspecting an article's
// derived JSON-LD.
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [article-id]",
		Short: "Print the derived schema.org JSON-LD for a stored article",
		Long: `Derive and print the JSON-LD that would be embedded when the article
is rendered. Derivation uses the structured hints stored at generation time
when present, falling back to extraction from the article body.

Example:
  overviewly schema 4f7c2a1e-...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(args[0])
		},
	}

	return cmd
}

func runSchema(articleID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	article, err := st.GetArticle(articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("article %s not found", articleID)
	}

	kinds := render.SchemaKinds(st, article.ID)
	if len(kinds) == 0 {
		kinds = cfg.SchemaKinds()
	}

	derived := render.Deriver(cfg).Derive(render.SchemaInput(st, cfg, *article), kinds)
	encoded, err := json.MarshalIndent(derived, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	fmt.Println(string(encoded))
	return nil
}
