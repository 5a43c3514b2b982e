// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package indexdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buda-base/etext-sync/pkg/types"
)

func bulkDocs() []*Document {
	return []*Document{
		{ID: "IE1_T1", Routing: "IE1", Type: []string{"Etext"}, EtextInstance: "IE1"},
		{ID: "IE1_T2", Routing: "IE1", Type: []string{"Etext"}, EtextInstance: "IE1"},
	}
}

func TestBulkUpload(t *testing.T) {
	var captured []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		assert.Equal(t, "application/x-ndjson", r.Header.Get("Content-Type"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "hunter2", pass)
		captured, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"errors":false,"items":[]}`)
	}))
	defer ts.Close()

	cfg := types.IndexConfig{BaseURL: ts.URL, Index: "etexts", Username: "admin", Password: "hunter2"}
	var log bytes.Buffer
	err := BulkUpload(context.Background(), cfg, bulkDocs(), &log)
	require.NoError(t, err)
	assert.Contains(t, log.String(), "indexed 2 document(s)")

	// One action line and one source line per document.
	lines := strings.Split(strings.TrimSpace(string(captured)), "\n")
	require.Len(t, lines, 4)

	var action bulkAction
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.Equal(t, "etexts", action.Index.Index)
	assert.Equal(t, "IE1_T1", action.Index.ID)
	assert.Equal(t, "IE1", action.Index.Routing)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, "IE1", doc.EtextInstance)
}

func TestBulkUpload_ItemFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"errors":true,"items":[
			{"index":{"status":200}},
			{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"bad field"}}}
		]}`)
	}))
	defer ts.Close()

	cfg := types.IndexConfig{BaseURL: ts.URL, Index: "etexts"}
	var log bytes.Buffer
	err := BulkUpload(context.Background(), cfg, bulkDocs(), &log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, log.String(), "IE1_T2")
	assert.Contains(t, log.String(), "mapper_parsing_exception")
}

func TestBulkUpload_NoDocsIsNoop(t *testing.T) {
	cfg := types.IndexConfig{BaseURL: "http://example.invalid", Index: "etexts"}
	assert.NoError(t, BulkUpload(context.Background(), cfg, nil, io.Discard))
}

func TestBulkUpload_NoEndpoint(t *testing.T) {
	err := BulkUpload(context.Background(), types.IndexConfig{}, bulkDocs(), io.Discard)
	assert.Error(t, err)
}

func TestDeleteInstance(t *testing.T) {
	var capturedPath string
	var capturedBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"deleted":7}`)
	}))
	defer ts.Close()

	cfg := types.IndexConfig{BaseURL: ts.URL, Index: "etexts"}
	require.NoError(t, DeleteInstance(context.Background(), cfg, "IE1"))

	assert.Equal(t, "/etexts/_delete_by_query", capturedPath)
	var q struct {
		Query struct {
			Term map[string]string `json:"term"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal(capturedBody, &q))
	assert.Equal(t, "IE1", q.Query.Term["etext_instance"])
}

func TestDeleteInstance_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	err := DeleteInstance(context.Background(), types.IndexConfig{BaseURL: ts.URL, Index: "etexts"}, "IE1")
	assert.Error(t, err)
}
