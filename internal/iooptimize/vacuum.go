package iooptimize

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// vacuumAnalyze reclaims space of dead rows and updates statistics of
// the query planner. VACUUM cannot run inside a transaction block.
func vacuumAnalyze(ctx context.Context, pool *pgxpool.Pool, table string) error {
	q := "VACUUM ANALYZE " + pgx.Identifier{table}.Sanitize()
	if _, err := pool.Exec(ctx, q); err != nil {
		return VacuumError(table, err)
	}
	return nil
}

// tableSizes returns total size of tables in bytes, including indexes.
// Missing tables have zero size.
func tableSizes(
	ctx context.Context,
	pool *pgxpool.Pool,
	tables []string,
) (map[string]int64, error) {
	q := `SELECT COALESCE(pg_total_relation_size(to_regclass($1)), 0)`
	res := make(map[string]int64, len(tables))
	for _, v := range tables {
		var size int64
		if err := pool.QueryRow(ctx, q, v).Scan(&size); err != nil {
			return nil, SizeError(v, err)
		}
		res[v] = size
	}
	return res, nil
}
