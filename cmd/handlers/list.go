package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"overviewly/internal/core"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently generated articles with their generation provenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of articles to show")

	return cmd
}

func runList(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	articles, err := st.ListArticles(limit)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		fmt.Println("No articles yet. Run 'overviewly generate <topic>' to create one.")
		return nil
	}

	for _, a := range articles {
		provider := st.GetMetaString(a.ID, core.MetaProvider)
		contentType := st.GetMetaString(a.ID, core.MetaContentType)
		topic := st.GetMetaString(a.ID, core.MetaTopic)

		fmt.Printf("%s  %-8s %-8s %-11s %s\n",
			a.DateCreated.Format("2006-01-02 15:04"),
			a.Status,
			provider,
			contentType,
			a.Title,
		)
		fmt.Printf("%18s id: %s  topic: %s\n", "", a.ID, topic)
	}
	return nil
}
