// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/buda-base/etext-sync/internal/httputil"
	"github.com/buda-base/etext-sync/pkg/types"
)

const defaultFetchTimeout = 30 * time.Second

// Fetch retrieves the outline for a work from the outline service. The
// service answers GET {base_url}/{work} with the JSON form of Outline.
// Rate-limited and temporarily unavailable responses are retried with
// backoff.
func Fetch(ctx context.Context, cfg types.OutlineConfig, work string) (*Outline, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no outline service configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/"+work, nil)
	if err != nil {
		return nil, fmt.Errorf("building outline request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	client := &http.Client{Timeout: timeout}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching outline for %s: %w", work, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No outline recorded for the work; the caller falls back to
		// per-document segmentation.
		return &Outline{Work: work}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("outline service returned %s for %s", resp.Status, work)
	}

	var o Outline
	if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
		return nil, fmt.Errorf("decoding outline for %s: %w", work, err)
	}
	if o.Work == "" {
		o.Work = work
	}
	return &o, nil
}
