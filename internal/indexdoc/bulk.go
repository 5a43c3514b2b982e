// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package indexdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buda-base/etext-sync/internal/httputil"
	"github.com/buda-base/etext-sync/pkg/types"
)

const defaultUploadTimeout = 2 * time.Minute

type bulkAction struct {
	Index bulkTarget `json:"index"`
}

type bulkTarget struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Routing string `json:"routing,omitempty"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

func newClient(cfg types.IndexConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return &http.Client{Timeout: timeout}
}

// BulkUpload writes documents to the index through the bulk endpoint. The
// request body is newline-delimited JSON, one action line and one source line
// per document. Item-level failures do not abort the batch; each is logged to
// w and counted in the returned error.
func BulkUpload(ctx context.Context, cfg types.IndexConfig, docs []*Document, w io.Writer) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("no index endpoint configured")
	}
	if len(docs) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, doc := range docs {
		if err := enc.Encode(bulkAction{Index: bulkTarget{Index: cfg.Index, ID: doc.ID, Routing: doc.Routing}}); err != nil {
			return fmt.Errorf("encoding bulk action: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding document %s: %w", doc.ID, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/_bulk", bytes.NewReader(body.Bytes()))
	if err != nil {
		return fmt.Errorf("building bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.Username != "" {
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}

	resp, err := httputil.DoWithRetry(ctx, newClient(cfg), req, cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("bulk upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("bulk upload returned %s: %s", resp.Status, msg)
	}

	var br bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return fmt.Errorf("decoding bulk response: %w", err)
	}
	if !br.Errors {
		fmt.Fprintf(w, "indexed %d document(s)\n", len(docs))
		return nil
	}

	failed := 0
	for i, item := range br.Items {
		for _, r := range item {
			if r.Status >= 300 {
				failed++
				id := "?"
				if i < len(docs) {
					id = docs[i].ID
				}
				if r.Error != nil {
					fmt.Fprintf(w, "indexing %s failed: %s: %s\n", id, r.Error.Type, r.Error.Reason)
				} else {
					fmt.Fprintf(w, "indexing %s failed with status %d\n", id, r.Status)
				}
			}
		}
	}
	return fmt.Errorf("bulk upload: %d of %d document(s) failed", failed, len(docs))
}

// DeleteInstance removes every document of an etext instance from the index,
// so a re-sync starts clean before uploading the new segmentation.
func DeleteInstance(ctx context.Context, cfg types.IndexConfig, instance string) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("no index endpoint configured")
	}

	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"etext_instance": instance},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("encoding delete query: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_delete_by_query", cfg.BaseURL, cfg.Index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.Username != "" {
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}

	resp, err := httputil.DoWithRetry(ctx, newClient(cfg), req, cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("deleting documents of %s: %w", instance, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("delete-by-query returned %s: %s", resp.Status, msg)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
