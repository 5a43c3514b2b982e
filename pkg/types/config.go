// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "etext-sync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// ArchiveDir is the base directory holding the archive; each volume is a
	// subdirectory of ArchiveDir/archive containing *.xml source documents.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}

// OutlineConfig holds settings for fetching outline content locations.
type OutlineConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the outline service endpoint
	// (e.g. "https://purl.bdrc.io/outline"). Empty disables fetching; the
	// segmenter then runs from a local outline file or in no-outline mode.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries bounds retry attempts on rate-limited fetches (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ChunkConfig holds settings for the chunk boundary provider.
type ChunkConfig struct {
	// MaxSize is the character budget per chunk (default 1500).
	MaxSize int `json:"max_size" yaml:"max_size"`
}

// IndexConfig holds settings for the search-index upload stage.
type IndexConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the search index endpoint (e.g. "https://opensearch.bdrc.io").
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Index is the index name documents are written to.
	Index string `json:"index" yaml:"index"`

	// Username/Password authenticate bulk requests. Usually loaded from the
	// secrets directory rather than the config file.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// MaxRetries bounds retry attempts on rate-limited uploads (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CatalogConfig holds settings for the local sync catalog.
type CatalogConfig struct {
	// CatalogDir is the directory holding the catalog database (catalog.db).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`
}

// SyncConfig groups all stage configurations for the sync pipeline.
type SyncConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Outline    OutlineConfig    `json:"outline" yaml:"outline"`
	Chunks     ChunkConfig      `json:"chunks" yaml:"chunks"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
}
