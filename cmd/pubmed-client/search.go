package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-client/internal/export"
	"github.com/pdiddy/pubmed-client/internal/pubmed"
	"github.com/pdiddy/pubmed-client/pkg/types"
)

const defaultSearchMax = 10

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search PubMed and fetch the matching articles",
	Long: `Search runs a PubMed query, fetches metadata for the matching articles,
and prints a summary. With --csv or --json the articles are written to a
file instead. Use --ids-only to print the matching PMIDs without
fetching, or --save-search to keep the query and its ids for a later
fetch --from-search.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("max", "m", defaultSearchMax, "maximum number of results")
	searchCmd.Flags().String("min-date", "", "earliest publication date (YYYY/MM/DD)")
	searchCmd.Flags().String("max-date", "", "latest publication date (YYYY/MM/DD)")
	searchCmd.Flags().String("csv", "", "save fetched articles to a CSV file")
	searchCmd.Flags().String("json", "", "save fetched articles to a JSON file")
	searchCmd.Flags().String("save-search", "", "save the query and matching ids to a YAML file")
	searchCmd.Flags().Bool("ids-only", false, "print matching PMIDs without fetching")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max")
	minDate, _ := cmd.Flags().GetString("min-date")
	maxDate, _ := cmd.Flags().GetString("max-date")
	savePath, _ := cmd.Flags().GetString("save-search")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	opts := pubmed.SearchOptions{
		MaxResults: maxResults,
		MinDate:    minDate,
		MaxDate:    maxDate,
	}
	client := pubmed.New(clientConfig(cmd))
	ctx := context.Background()

	result, err := client.Search(ctx, args[0], opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d articles, returning %d\n", result.Count, len(result.IDs))

	if savePath != "" {
		if err := pubmed.WriteSearchFile(savePath, args[0], opts, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search to %s\n", savePath)
	}

	if idsOnly {
		for _, id := range result.IDs {
			fmt.Println(id)
		}
		return nil
	}
	if len(result.IDs) == 0 {
		return nil
	}

	articles, err := client.Fetch(ctx, result.IDs)
	if err != nil {
		return err
	}
	return outputArticles(cmd, articles)
}

// --- shared output helpers ---

// outputArticles writes articles to the files named by the --csv and
// --json flags, or prints a summary when neither is set.
func outputArticles(cmd *cobra.Command, articles []types.Article) error {
	csvPath, _ := cmd.Flags().GetString("csv")
	jsonPath, _ := cmd.Flags().GetString("json")

	if csvPath != "" {
		if err := export.SaveCSV(articles, csvPath); err != nil {
			return err
		}
		fmt.Printf("Saved %d articles to %s\n", len(articles), csvPath)
	}
	if jsonPath != "" {
		if err := export.SaveJSON(articles, jsonPath); err != nil {
			return err
		}
		fmt.Printf("Saved %d articles to %s\n", len(articles), jsonPath)
	}
	if csvPath == "" && jsonPath == "" {
		printArticles(articles)
	}
	return nil
}

// printArticles prints a short stdout summary of each article.
func printArticles(articles []types.Article) {
	for _, a := range articles {
		title := a.Title
		if len(title) > 80 {
			title = title[:80]
		}
		fmt.Printf("[%s] %s...\n", a.PMID, title)

		if len(a.Authors) > 0 {
			shown := a.Authors
			if len(shown) > 3 {
				shown = shown[:3]
			}
			fmt.Printf("  Authors: %s", strings.Join(shown, ", "))
			if len(a.Authors) > 3 {
				fmt.Printf(" et al. (%d total)", len(a.Authors))
			}
			fmt.Println()
		}
		fmt.Println()
	}
}
