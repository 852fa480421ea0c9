package catalog

import (
	"context"
	"fmt"
	"time"
)

// Record describes one scanned package file
type Record struct {
	// Path is the scanned file's path and the record's identity
	Path string

	// Kind is "package" or "bundle"
	Kind string

	// Identity fields read from the application manifest
	Name         string
	Publisher    string
	Version      string
	Architecture string

	// SHA256 is the hex digest of the file contents
	SHA256 string

	// SizeBytes is the file size on disk
	SizeBytes int64

	// ScannedAt records when the file was cataloged
	ScannedAt time.Time
}

const upsertSQL = `INSERT INTO packages (path, kind, name, publisher, version, architecture, sha256, size_bytes, scanned_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    kind = excluded.kind,
    name = excluded.name,
    publisher = excluded.publisher,
    version = excluded.version,
    architecture = excluded.architecture,
    sha256 = excluded.sha256,
    size_bytes = excluded.size_bytes,
    scanned_at = excluded.scanned_at`

// Upsert writes the given records in a single transaction. A record
// whose path is already cataloged replaces the stored row.
func (c *Catalog) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Safe to call even after commit

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.Path,
			rec.Kind,
			rec.Name,
			rec.Publisher,
			rec.Version,
			rec.Architecture,
			rec.SHA256,
			rec.SizeBytes,
			rec.ScannedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("upserting record for %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Summary returns all cataloged records ordered by name then path
func (c *Catalog) Summary(ctx context.Context) ([]Record, error) {
	rows, err := c.Query(ctx, `SELECT path, kind, name, publisher, version, architecture, sha256, size_bytes, scanned_at
FROM packages ORDER BY name, path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var scannedAt string
		err := rows.Scan(
			&rec.Path,
			&rec.Kind,
			&rec.Name,
			&rec.Publisher,
			&rec.Version,
			&rec.Architecture,
			&rec.SHA256,
			&rec.SizeBytes,
			&scannedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}

		// Rows written by Upsert always carry an RFC 3339 timestamp.
		if t, err := time.Parse(time.RFC3339, scannedAt); err == nil {
			rec.ScannedAt = t
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	return records, nil
}
