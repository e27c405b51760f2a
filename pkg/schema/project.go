package schema

import "time"

// Project is a row of the PEPhub catalog. The table is shared with
// PEPhub itself, so it is created from explicit DDL instead of
// AutoMigrate, and writes go through pgx.
type Project struct {
	ID              int64     `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	Namespace       string    `db:"namespace" ddl:"VARCHAR(255) NOT NULL"`
	Name            string    `db:"name" ddl:"VARCHAR(255) NOT NULL"`
	Tag             string    `db:"tag" ddl:"VARCHAR(255) NOT NULL DEFAULT 'default'"`
	Digest          string    `db:"digest" ddl:"VARCHAR(64) NOT NULL"`
	Description     string    `db:"description" ddl:"TEXT"`
	Config          []byte    `db:"config" ddl:"JSONB"`
	Samples         []byte    `db:"samples" ddl:"JSONB"`
	NumberOfSamples int       `db:"number_of_samples" ddl:"INT NOT NULL DEFAULT 0"`
	PepSchema       string    `db:"pep_schema" ddl:"VARCHAR(255)"`
	Private         bool      `db:"private" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`
	SubmissionDate  time.Time `db:"submission_date" ddl:"TIMESTAMPTZ NOT NULL DEFAULT now()"`
	LastUpdateDate  time.Time `db:"last_update_date" ddl:"TIMESTAMPTZ NOT NULL DEFAULT now()"`
}

// TableName returns the catalog table.
func (Project) TableName() string {
	return "projects"
}
