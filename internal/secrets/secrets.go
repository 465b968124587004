// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files: the filename is the key name and the trimmed file contents are
// the value. The client looks for one key file, ncbi-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NCBIAPIKey is the key file holding the E-utilities API key.
const NCBIAPIKey = "ncbi-api-key"

// Load reads every regular file in dir into a key-to-value map. A
// missing directory is not an error and yields an empty map; dotfiles,
// subdirectories, and empty files are skipped. Unreadable files produce
// a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return secrets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping unreadable secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Get returns the named secret from dir, or "" when the directory or
// the key is absent.
func Get(dir, name string) string {
	secrets, err := Load(dir)
	if err != nil {
		return ""
	}
	return secrets[name]
}
