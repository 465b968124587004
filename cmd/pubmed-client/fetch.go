package main

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-client/internal/pubmed"
)

// pmidPattern rejects obviously malformed ids before any request goes out.
var pmidPattern = regexp.MustCompile(`^\d+$`)

var fetchCmd = &cobra.Command{
	Use:   "fetch [pmids...]",
	Short: "Fetch article metadata by PMID",
	Long: `Fetch retrieves metadata for the given PubMed IDs and prints a summary,
or writes the articles to a file with --csv or --json. Instead of listing
ids on the command line, --from-search reads them from a file written by
search --save-search.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("from-search", "", "read PMIDs from a saved search file")
	fetchCmd.Flags().String("csv", "", "save fetched articles to a CSV file")
	fetchCmd.Flags().String("json", "", "save fetched articles to a JSON file")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ids, err := resolveFetchIDs(cmd, args)
	if err != nil {
		return err
	}

	client := pubmed.New(clientConfig(cmd))
	articles, err := client.Fetch(context.Background(), ids)
	if err != nil {
		return err
	}
	return outputArticles(cmd, articles)
}

// resolveFetchIDs takes the PMIDs from the command line or from a saved
// search file, and validates them.
func resolveFetchIDs(cmd *cobra.Command, args []string) ([]string, error) {
	searchPath, _ := cmd.Flags().GetString("from-search")

	ids := args
	if searchPath != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("provide PMIDs or --from-search, not both")
		}
		sf, err := pubmed.ReadSearchFile(searchPath)
		if err != nil {
			return nil, err
		}
		ids = sf.Result.IDs
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("provide one or more PMIDs, or --from-search with a saved search file")
	}
	for _, id := range ids {
		if !pmidPattern.MatchString(id) {
			return nil, fmt.Errorf("invalid PMID %q: PMIDs are numeric", id)
		}
	}
	return ids, nil
}
