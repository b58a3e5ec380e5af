// internal/pipeline/snapshot/handler_test.go
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/models"
)

func newTestHandler(t *testing.T, dir string) *Handler {
	h := NewHandler(dir, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2025, 8, 25, 9, 30, 0, 0, time.UTC) }
	return h
}

func TestHandler_Write_DatedFilename(t *testing.T) {
	dir := t.TempDir()
	h := newTestHandler(t, dir)

	path, err := h.Write([]models.RawPost{{"id": "1"}})

	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "250825_data.json"), path)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestHandler_Write_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "scraped")
	h := newTestHandler(t, dir)

	_, err := h.Write([]models.RawPost{{"id": "1"}})

	assert.NoError(t, err)
}

func TestHandler_Write_SameDayOverwrite(t *testing.T) {
	dir := t.TempDir()
	h := newTestHandler(t, dir)

	first, err := h.Write([]models.RawPost{{"id": "1"}, {"id": "2"}})
	assert.NoError(t, err)

	second, err := h.Write([]models.RawPost{{"id": "3"}})
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	// Last write wins; exactly one file for the day.
	data, err := os.ReadFile(second)
	assert.NoError(t, err)
	var records []models.RawPost
	assert.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 1)
	assert.Equal(t, "3", records[0].ID())

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHandler_Write_EmptyBatchWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	h := newTestHandler(t, dir)

	path, err := h.Write(nil)

	assert.NoError(t, err)
	data, readErr := os.ReadFile(path)
	assert.NoError(t, readErr)
	assert.JSONEq(t, "[]", string(data))
}

func TestHandler_Write_PreservesUnknownProviderFields(t *testing.T) {
	dir := t.TempDir()
	h := newTestHandler(t, dir)

	path, err := h.Write([]models.RawPost{{
		"id":              "1",
		"someFutureField": "kept",
	}})
	assert.NoError(t, err)

	data, readErr := os.ReadFile(path)
	assert.NoError(t, readErr)
	var records []models.RawPost
	assert.NoError(t, json.Unmarshal(data, &records))
	assert.Equal(t, "kept", records[0]["someFutureField"])
}

func TestHandler_Write_FilesystemFailure(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "occupied")
	assert.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	h := newTestHandler(t, blocked)

	path, err := h.Write([]models.RawPost{{"id": "1"}})

	assert.Empty(t, path)
	perr, ok := pipeerrors.AsPipelineError(err)
	assert.True(t, ok)
	assert.Equal(t, pipeerrors.ErrCodePersistFailed, perr.Code)
	assert.True(t, perr.Fatal)
}
