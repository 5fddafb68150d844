package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ResultsFileName is the per-site log of command summaries.
const ResultsFileName = "results.json"

// ResultsPath is <dir>/<host>/results.json.
func ResultsPath(dir, host string) string {
	return filepath.Join(dir, siteDirName(host), ResultsFileName)
}

// Results is the on-disk shape of results.json. Each run is a single-key
// object mapping its RFC 3339 timestamp to {command: summary}.
type Results struct {
	Runs []map[string]map[string]json.RawMessage `json:"runs"`
}

// AppendResult adds a run of command with the given summary to the results
// file at path. A missing or unreadable file starts a fresh log.
func AppendResult(path, command string, summary any, at time.Time) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding %s result: %w", command, err)
	}

	results, err := ReadResults(path)
	if err != nil {
		results = &Results{}
	}

	results.Runs = append(results.Runs, map[string]map[string]json.RawMessage{
		at.Format(time.RFC3339Nano): {command: data},
	})

	if err := writeJSON(path, results); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// ReadResults loads the results file at path. A missing file yields an empty
// log.
func ReadResults(path string) (*Results, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Results{}, nil
	}
	if err != nil {
		return nil, err
	}

	var results Results
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decoding results %s: %w", path, err)
	}
	return &results, nil
}
