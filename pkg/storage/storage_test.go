package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devraulu/politecrawl/pkg/crawler"
)

func TestRecordPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "example.com", RecordFileName), RecordPath("data", "example.com"))
	assert.Equal(t, filepath.Join("data", "127.0.0.1_8080", RecordFileName), RecordPath("data", "127.0.0.1:8080"))
	assert.Equal(t, filepath.Join("data", "default_site", RecordFileName), RecordPath("data", ""))
}

func TestWriteRecord_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", RecordFileName)
	record := map[string]string{
		"http://example.com/":     "Home\n\nWelcome <b>here</b>",
		"http://example.com/cafe": "naïve text",
	}

	require.NoError(t, WriteRecord(path, record))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "naïve text")
	assert.Contains(t, string(raw), "<b>here</b>")
	assert.Contains(t, string(raw), "\n  \"http://example.com/\"")

	got, err := ReadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestWriteRecord_EmptyIsObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), RecordFileName)
	require.NoError(t, WriteRecord(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(raw))
}

func TestWriteRecord_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), RecordFileName)
	require.NoError(t, WriteRecord(path, map[string]string{"a": "1"}))
	require.NoError(t, WriteRecord(path, map[string]string{"b": "2"}))

	got, err := ReadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

type memStorage struct {
	pages []Page
	err   error
}

func (m *memStorage) SavePage(_ context.Context, p Page) error {
	if m.err != nil {
		return m.err
	}
	m.pages = append(m.pages, p)
	return nil
}

func (m *memStorage) PageRecord(_ context.Context, domain string) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range m.pages {
		if p.Domain == domain {
			out[p.URL] = p.Content
		}
	}
	return out, nil
}

func (m *memStorage) Close() error { return nil }

func TestRecorder_SavesPages(t *testing.T) {
	store := &memStorage{}
	r := NewRecorder(store, "example.com", slog.New(slog.NewTextHandler(io.Discard, nil)))
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var _ crawler.Observer = r
	r.OnPageVisited(context.Background(), crawler.Page{
		URL:        "http://example.com/",
		Title:      "Home",
		Text:       "hello",
		StatusCode: 200,
		Outlinks:   []string{"http://example.com/a"},
		FetchedAt:  fetched,
	})
	r.OnError(context.Background(), "http://example.com/x", crawler.ErrFetchFailure)

	require.Len(t, store.pages, 1)
	p := store.pages[0]
	assert.Equal(t, "example.com", p.Domain)
	assert.Equal(t, "hello", p.Content)
	assert.Equal(t, "Home", p.Title)
	assert.Equal(t, fetched, p.Timestamp)
	assert.Equal(t, 1, r.Saved)

	rec, err := store.PageRecord(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"http://example.com/": "hello"}, rec)
}

func TestRecorder_SaveFailureIsContained(t *testing.T) {
	store := &memStorage{err: errors.New("connection reset")}
	r := NewRecorder(store, "example.com", slog.New(slog.NewTextHandler(io.Discard, nil)))

	r.OnPageVisited(context.Background(), crawler.Page{URL: "http://example.com/"})

	assert.Equal(t, 0, r.Saved)
	assert.Equal(t, 1, r.Failed)
}
