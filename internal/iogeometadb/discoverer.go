// Package iogeometadb finds GEO series in a local GEOmetadb SQLite
// file. It is an offline alternative to E-utilities discovery.
package iogeometadb

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/target"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// Discoverer implements pipeline.Discoverer on a GEOmetadb database.
type Discoverer struct {
	db *sql.DB
}

// Open opens a GEOmetadb file read-only.
func Open(path string) (*Discoverer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, OpenError(path, err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, OpenError(path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	return &Discoverer{db: db}, nil
}

// New wraps an already opened database.
func New(db *sql.DB) *Discoverer {
	return &Discoverer{db: db}
}

// Close closes the database.
func (d *Discoverer) Close() error {
	return d.db.Close()
}

const seriesSQL = `
SELECT DISTINCT gse.gse
FROM gse
WHERE gse.submission_date BETWEEN ? AND ?
`

// Files of a series or of any of its samples must mention "bed" for
// the (bed) filter, the same way the full text search of GEO does.
const bedSQL = `
AND (
	gse.supplementary_file LIKE '%bed%'
	OR EXISTS (
		SELECT 1 FROM gse_gsm
		JOIN gsm ON gsm.gsm = gse_gsm.gsm
		WHERE gse_gsm.gse = gse.gse
		AND gsm.supplementary_file LIKE '%bed%'
	)
)
`

// Discover implements pipeline.Discoverer. GEOmetadb keeps dates as
// YYYY-MM-DD, the window is converted accordingly.
func (d *Discoverer) Discover(
	ctx context.Context,
	t target.Target,
	w pipeline.Window,
) ([]string, error) {
	q := seriesSQL
	if t.DiscoveryFilter() != "" {
		q += bedSQL
	}
	q += "ORDER BY gse.gse"

	start := strings.ReplaceAll(w.Start, "/", "-")
	end := strings.ReplaceAll(w.End, "/", "-")

	rows, err := d.db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, QueryError(w.String(), err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var gse string
		if err := rows.Scan(&gse); err != nil {
			return nil, QueryError(w.String(), err)
		}
		res = append(res, gse)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(w.String(), err)
	}
	return res, nil
}
