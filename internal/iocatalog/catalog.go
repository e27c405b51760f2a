// Package iocatalog writes projects into the PEPhub catalog table.
// This is an impure I/O package that implements pipeline.Catalog.
package iocatalog

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/gnames/geopephub/pkg/db"
	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE of a duplicate key.
const uniqueViolation = "23505"

type catalog struct {
	op  db.Operator
	cfg config.CatalogConfig
	enc gnfmt.GNjson
}

// New creates a Catalog on the operator's pool.
func New(op db.Operator, cfg config.CatalogConfig) pipeline.Catalog {
	return &catalog{op: op, cfg: cfg}
}

const insertSQL = `
INSERT INTO projects (
	namespace, name, tag, digest, description, config, samples,
	number_of_samples, pep_schema, private
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const upsertSQL = insertSQL + `
ON CONFLICT (namespace, name, tag) DO UPDATE SET
	digest = EXCLUDED.digest,
	description = EXCLUDED.description,
	config = EXCLUDED.config,
	samples = EXCLUDED.samples,
	number_of_samples = EXCLUDED.number_of_samples,
	pep_schema = EXCLUDED.pep_schema,
	private = EXCLUDED.private,
	last_update_date = now()
`

// Create implements pipeline.Catalog. Without overwrite an existing
// namespace/name:tag is an error.
func (c *catalog) Create(
	ctx context.Context,
	sub pipeline.SubProject,
	namespace, name, tag string,
	overwrite bool,
) error {
	path := pipeline.RegistryPath(namespace, name, tag)
	pool := c.op.Pool()
	if pool == nil {
		return WriteError(path, errors.New("not connected to database"))
	}

	p, err := c.project(sub, namespace, name, tag)
	if err != nil {
		return WriteError(path, err)
	}

	q := insertSQL
	if overwrite {
		q = upsertSQL
	}

	_, err = pool.Exec(ctx, q,
		p.Namespace, p.Name, p.Tag, p.Digest, p.Description,
		p.Config, p.Samples, p.NumberOfSamples, p.PepSchema, p.Private,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ProjectExistsError(path)
		}
		return WriteError(path, err)
	}
	return nil
}

// Count implements pipeline.Catalog.
func (c *catalog) Count(ctx context.Context, namespace string) (int, error) {
	pool := c.op.Pool()
	if pool == nil {
		return 0, CountError(namespace, errors.New("not connected to database"))
	}

	var res int
	err := pool.QueryRow(ctx,
		"SELECT count(*) FROM projects WHERE namespace = $1", namespace,
	).Scan(&res)
	if err != nil {
		return 0, CountError(namespace, err)
	}
	return res, nil
}

// project converts a sub-project into a catalog row. The digest is a
// UUID v5 of the namespace, name, tag and the encoded payload, so an
// unchanged project keeps its digest between uploads.
func (c *catalog) project(
	sub pipeline.SubProject,
	namespace, name, tag string,
) (schema.Project, error) {
	var res schema.Project

	cfg := sub.Config
	if cfg == nil {
		cfg = make(map[string]any)
	}
	if _, ok := cfg["pep_version"]; !ok {
		cfg = maps.Clone(cfg)
		cfg["pep_version"] = "2.1.0"
	}
	cfgJSON, err := c.enc.Encode(cfg)
	if err != nil {
		return res, err
	}

	samples := sub.Samples
	if samples == nil {
		samples = []map[string]string{}
	}
	samplesJSON, err := c.enc.Encode(samples)
	if err != nil {
		return res, err
	}

	digestSrc := strings.Join([]string{
		namespace, name, tag, string(cfgJSON), string(samplesJSON),
	}, "|")

	res = schema.Project{
		Namespace:       namespace,
		Name:            name,
		Tag:             tag,
		Digest:          gnuuid.New(digestSrc).String(),
		Description:     sub.Description,
		Config:          cfgJSON,
		Samples:         samplesJSON,
		NumberOfSamples: len(samples),
		PepSchema:       c.cfg.PepSchema,
		Private:         c.cfg.Private,
	}
	return res, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
