package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RecordFileName is the per-site file the Page Record is written to.
const RecordFileName = "crawled_content.json"

// RecordPath is <dir>/<host>/crawled_content.json. Characters that are not
// safe in a directory name (the port colon, mostly) become underscores.
func RecordPath(dir, host string) string {
	return filepath.Join(dir, siteDirName(host), RecordFileName)
}

func siteDirName(host string) string {
	if host == "" {
		return "default_site"
	}
	b := []byte(host)
	for i, c := range b {
		switch c {
		case ':', '/', '\\', '*', '?', '"', '<', '>', '|':
			b[i] = '_'
		}
	}
	return string(b)
}

// WriteRecord writes record as a flat, indented JSON object. Non-ASCII text
// is written as-is and HTML characters are not escaped. The file is replaced
// atomically.
func WriteRecord(path string, record map[string]string) error {
	if record == nil {
		record = map[string]string{}
	}

	if err := writeJSON(path, record); err != nil {
		return fmt.Errorf("writing page record: %w", err)
	}
	return nil
}

// writeJSON encodes v as indented JSON without HTML escaping and replaces
// path with it atomically.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".politecrawl-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func ReadRecord(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record map[string]string
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding page record %s: %w", path, err)
	}
	return record, nil
}
