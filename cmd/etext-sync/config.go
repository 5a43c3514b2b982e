// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/buda-base/etext-sync/internal/chunker"
	"github.com/buda-base/etext-sync/pkg/types"
)

func init() {
	viper.SetDefault("conversion.archive_dir", ".")
	viper.SetDefault("outline.user_agent", "etext-sync/"+version)
	viper.SetDefault("outline.max_retries", 3)
	viper.SetDefault("chunks.max_size", chunker.DefaultMaxSize)
	viper.SetDefault("index.index", "etexts")
	viper.SetDefault("index.user_agent", "etext-sync/"+version)
	viper.SetDefault("index.max_retries", 3)
	viper.SetDefault("catalog.catalog_dir", ".etext-sync")
}

// syncConfig assembles the pipeline configuration from the config file,
// environment, and secrets.
func syncConfig() types.SyncConfig {
	var cfg types.SyncConfig

	cfg.Conversion.ArchiveDir = viper.GetString("conversion.archive_dir")

	cfg.Outline.BaseURL = viper.GetString("outline.base_url")
	cfg.Outline.Timeout = viper.GetDuration("outline.timeout")
	cfg.Outline.UserAgent = viper.GetString("outline.user_agent")
	cfg.Outline.MaxRetries = viper.GetInt("outline.max_retries")

	cfg.Chunks.MaxSize = viper.GetInt("chunks.max_size")

	cfg.Index.BaseURL = viper.GetString("index.base_url")
	cfg.Index.Index = viper.GetString("index.index")
	cfg.Index.Timeout = viper.GetDuration("index.timeout")
	cfg.Index.UserAgent = viper.GetString("index.user_agent")
	cfg.Index.MaxRetries = viper.GetInt("index.max_retries")
	cfg.Index.Username = secretDefault("opensearch-user", viper.GetString("index.username"))
	cfg.Index.Password = secretDefault("opensearch-pass", viper.GetString("index.password"))

	cfg.Catalog.CatalogDir = viper.GetString("catalog.catalog_dir")

	return cfg
}
