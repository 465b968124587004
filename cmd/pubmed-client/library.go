// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-client/internal/export"
	"github.com/pdiddy/pubmed-client/internal/library"
	"github.com/pdiddy/pubmed-client/internal/pubmed"
	"github.com/pdiddy/pubmed-client/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local article library (save, search, list, export)",
	Long: `Library keeps fetched articles in a local SQLite database with a
full-text index over titles, abstracts, and keywords. Use subcommands to
save articles, search or list them, export the collection, or remove
entries.`,
}

// --- save subcommand ---

var librarySaveCmd = &cobra.Command{
	Use:   "save [pmids...]",
	Short: "Fetch articles and save them to the library",
	Long: `Save fetches metadata for the given PMIDs (or for the ids in a saved
search file) and stores it in the library. Saving an article that is
already in the library replaces it.`,
	RunE: runLibrarySave,
}

func runLibrarySave(cmd *cobra.Command, args []string) error {
	ids, err := resolveFetchIDs(cmd, args)
	if err != nil {
		return err
	}

	client := pubmed.New(clientConfig(cmd))
	articles, err := client.Fetch(context.Background(), ids)
	if err != nil {
		return err
	}

	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.Save(context.Background(), articles)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d articles to the library\n", saved)
	if missing := len(ids) - len(articles); missing > 0 {
		fmt.Fprintf(os.Stderr, "%d id(s) returned no article\n", missing)
	}
	return nil
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the library with full-text search and filters",
	Long: `Search queries the library using full-text search over titles,
abstracts, and keywords, structured filters (author, journal), or a
combination of both. Full-text matches are ranked by relevance.`,
	RunE: runLibrarySearch,
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --author, or --journal")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatLibraryOutput(results, jsonOutput)
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every article in the library",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatLibraryOutput(results, jsonOutput)
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to a JSON or CSV file",
	Long: `Export writes every article in the library to a file in the library
directory, or to the path given with --out. Both formats round-trip
through fetch: exported files can be re-read without loss.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	cfg := libraryConfig(cmd)
	store, err := library.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	articles, err := store.List(context.Background())
	if err != nil {
		return err
	}

	switch format {
	case "json", "":
		if outPath == "" {
			outPath = filepath.Join(cfg.LibraryDir, "export.json")
		}
		err = export.SaveJSON(articles, outPath)
	case "csv":
		if outPath == "" {
			outPath = filepath.Join(cfg.LibraryDir, "export.csv")
		}
		err = export.SaveCSV(articles, outPath)
	default:
		return fmt.Errorf("unsupported format %q: use json or csv", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d articles to %s\n", len(articles), outPath)
	return nil
}

// --- remove subcommand ---

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <pmid>",
	Short: "Remove an article from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRemove,
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Remove(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("article %s is not in the library", args[0])
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

// --- shared helpers ---

func libraryConfig(cmd *cobra.Command) types.LibraryConfig {
	libraryDir, _ := cmd.Flags().GetString("library-dir")
	if libraryDir == "" {
		libraryDir = "library"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.LibraryConfig{
		LibraryDir: libraryDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	author, _ := cmd.Flags().GetString("author")
	journal, _ := cmd.Flags().GetString("journal")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Query:      queryText,
		Author:     author,
		Journal:    journal,
		MaxResults: limit,
	}
}

func formatLibraryOutput(articles []types.Article, jsonOutput bool) error {
	if jsonOutput {
		data, err := export.ToJSON(articles)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(articles) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-25s  %s\n",
		"PMID", "Title", "Journal", "Published")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, a := range articles {
		title := a.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		journal := a.Journal
		if len(journal) > 25 {
			journal = journal[:22] + "..."
		}
		published := ""
		if a.PublicationDate != nil {
			published = a.PublicationDate.String()
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-25s  %s\n",
			a.PMID, title, journal, published)
	}

	fmt.Fprintf(os.Stdout, "\n%d articles\n", len(articles))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("library-dir", "library", "directory holding the library database")
	libraryCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	// Save flags.
	librarySaveCmd.Flags().String("from-search", "", "read PMIDs from a saved search file")

	// Search flags.
	librarySearchCmd.Flags().String("query", "", "full-text search query")
	librarySearchCmd.Flags().String("author", "", "filter by author name")
	librarySearchCmd.Flags().String("journal", "", "filter by exact journal name")
	librarySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	// List flags.
	libraryListCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("format", "json", "export format: json or csv")
	libraryExportCmd.Flags().String("out", "", "output path (default: <library-dir>/export.<format>)")

	// Wire subcommands.
	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)

	rootCmd.AddCommand(libraryCmd)
}
