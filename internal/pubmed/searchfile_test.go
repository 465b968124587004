package pubmed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

func TestSearchFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	result := &types.SearchResult{IDs: []string{"33283989", "31452104"}, Count: 128}
	opts := SearchOptions{MaxResults: 50, MinDate: "2020/01/01", MaxDate: "2024/12/31"}

	if err := WriteSearchFile(path, "crispr sickle cell", opts, result); err != nil {
		t.Fatalf("WriteSearchFile: %v", err)
	}

	sf, err := ReadSearchFile(path)
	if err != nil {
		t.Fatalf("ReadSearchFile: %v", err)
	}
	if sf.Query != "crispr sickle cell" {
		t.Errorf("Query = %q", sf.Query)
	}
	if sf.Options.MaxResults != 50 || sf.Options.MinDate != "2020/01/01" || sf.Options.MaxDate != "2024/12/31" {
		t.Errorf("Options = %+v", sf.Options)
	}
	if len(sf.Result.IDs) != 2 || sf.Result.IDs[0] != "33283989" {
		t.Errorf("Result.IDs = %v", sf.Result.IDs)
	}
	if sf.Result.Count != 128 {
		t.Errorf("Result.Count = %d, want 128", sf.Result.Count)
	}
	if sf.Summary.Returned != 2 || sf.Summary.Total != 128 {
		t.Errorf("Summary = %+v", sf.Summary)
	}
	if sf.Summary.Timestamp.IsZero() {
		t.Error("Summary.Timestamp should be set")
	}
}

func TestReadSearchFileMissing(t *testing.T) {
	_, err := ReadSearchFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadSearchFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("query: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadSearchFile(path)
	if err == nil || !strings.Contains(err.Error(), "parsing search file") {
		t.Errorf("err = %v, want parse failure", err)
	}
}
