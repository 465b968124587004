// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-client CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-client/internal/secrets"
	"github.com/pdiddy/pubmed-client/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the pubmed-client CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-client",
	Short: "Search and fetch article metadata from PubMed",
	Long: `pubmed-client talks to the NCBI E-utilities API: full-text search over
PubMed, batched metadata retrieval by PMID, and export to JSON or CSV.
Fetched articles can also be kept in a local library with full-text search.

Requests are rate limited to NCBI's published limits (3 requests per
second, or 10 with an API key). Supply a key with --api-key, the
PUBMED_CLIENT_API_KEY environment variable, or a .secrets/ncbi-api-key
file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; already-set variables win.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-client.yaml or ~/.config/pubmed-client/config.yaml)")
	rootCmd.PersistentFlags().String("api-key", "", "NCBI API key for higher rate limits")
	rootCmd.PersistentFlags().Bool("cache", false, "cache fetched articles in memory for this run")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-client")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-client"))
		}
	}

	viper.SetEnvPrefix("PUBMED_CLIENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientConfig assembles client settings from flags, environment,
// config file, and .secrets/, in that order of precedence.
func clientConfig(cmd *cobra.Command) types.ClientConfig {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}
	apiKey = secretDefault(secrets.NCBIAPIKey, apiKey)

	cacheFlag, _ := cmd.Flags().GetBool("cache")

	return types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		APIKey:       apiKey,
		MaxRetries:   viper.GetInt("max_retries"),
		CacheEnabled: cacheFlag || viper.GetBool("cache_enabled"),
		CacheTTL:     viper.GetDuration("cache_ttl"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
