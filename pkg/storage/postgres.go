package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	_ "github.com/lib/pq"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// SavePage upserts by URL, so re-crawling a site refreshes its rows.
func (s *PostgresStorage) SavePage(ctx context.Context, p Page) error {
	outlinks := p.Outlinks
	if outlinks == nil {
		outlinks = []string{}
	}
	jsonOutlinks, err := json.Marshal(outlinks)
	if err != nil {
		return err
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO pages (url, domain, timestamp, title, content, status_code, outlinks, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE
		SET domain = EXCLUDED.domain, timestamp = EXCLUDED.timestamp, title = EXCLUDED.title,
			content = EXCLUDED.content, status_code = EXCLUDED.status_code,
			outlinks = EXCLUDED.outlinks, last_modified = EXCLUDED.last_modified
		RETURNING id`,
		p.URL, p.Domain, p.Timestamp, p.Title, p.Content, p.StatusCode, jsonOutlinks, p.LastModified,
	).Scan(&id)

	if err != nil {
		return err
	}

	slog.Debug("saved page", "id", id, "url", p.URL)
	return nil
}

func (s *PostgresStorage) PageRecord(ctx context.Context, domain string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, COALESCE(content, '')
		FROM pages
		WHERE domain = $1
		ORDER BY id`,
		domain,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	record := make(map[string]string)
	for rows.Next() {
		var url, content string
		if err := rows.Scan(&url, &content); err != nil {
			return nil, err
		}
		record[url] = content
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
