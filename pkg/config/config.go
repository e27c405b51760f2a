// Package config provides configuration management for geopephub.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - GEO: eutils_url, api_key, email, requests_per_second, discovery,
//     geometadb_path, retmax
//   - Fetch: timeout, soft_url
//   - Catalog: pep_schema, private
//   - Metrics: pushgateway_url, job
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Queue: target, tag, period, cycle_count, start_period, end_period, gse
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GEOPEPHUB_ prefix with underscores for nesting:
//
//	GEOPEPHUB_DATABASE_HOST=localhost
//	GEOPEPHUB_GEO_API_KEY=secret
//	GEOPEPHUB_FETCH_TIMEOUT=3m
//	GEOPEPHUB_LOG_LEVEL=info
package config

import "time"

// Config represents the complete geopephub configuration.
type Config struct {
	// Database contains PostgreSQL connection settings. The same
	// database keeps the status tables and the catalog.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// GEO contains settings of accession discovery.
	GEO GEOConfig `mapstructure:"geo" yaml:"geo"`

	// Fetch contains settings of metadata download.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Catalog contains settings of project registration.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// Metrics contains settings of run metrics.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Queue contains per-invocation settings given by CLI flags.
	Queue QueueConfig `mapstructure:"-" yaml:"-"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// GEOConfig contains settings for finding GEO series.
type GEOConfig struct {
	// EutilsURL is the base URL of NCBI E-utilities.
	EutilsURL string `mapstructure:"eutils_url" yaml:"eutils_url"`

	// APIKey is an optional NCBI API key. With a key NCBI allows 10
	// requests per second instead of 3.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Email is sent to NCBI together with the tool name.
	Email string `mapstructure:"email" yaml:"email"`

	// RequestsPerSecond limits the rate of requests to NCBI.
	RequestsPerSecond int `mapstructure:"requests_per_second" yaml:"requests_per_second"`

	// Discovery selects the source of accessions.
	// Valid values: "eutils", "geometadb".
	Discovery string `mapstructure:"discovery" yaml:"discovery"`

	// GEOmetadbPath is the path to a GEOmetadb SQLite file. Used only
	// when Discovery is "geometadb".
	GEOmetadbPath string `mapstructure:"geometadb_path" yaml:"geometadb_path"`

	// RetMax is the page size of esearch results.
	RetMax int `mapstructure:"retmax" yaml:"retmax"`
}

// FetchConfig contains settings for downloading series metadata.
type FetchConfig struct {
	// Timeout is the deadline for fetching one accession.
	// It must be between MinFetchTimeout and MaxFetchTimeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// SoftURL is the address of GEO accession display that serves
	// SOFT documents.
	SoftURL string `mapstructure:"soft_url" yaml:"soft_url"`
}

// CatalogConfig contains settings of projects written to PEPhub.
type CatalogConfig struct {
	// PepSchema is recorded with every project.
	PepSchema string `mapstructure:"pep_schema" yaml:"pep_schema"`

	// Private marks created projects as private.
	Private bool `mapstructure:"private" yaml:"private"`
}

// MetricsConfig contains settings of Prometheus metrics.
type MetricsConfig struct {
	// PushgatewayURL is the address of a Prometheus Pushgateway.
	// Empty value disables pushing.
	PushgatewayURL string `mapstructure:"pushgateway_url" yaml:"pushgateway_url"`

	// Job is the job label of pushed metrics.
	Job string `mapstructure:"job" yaml:"job"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// QueueConfig keeps parameters of one invocation.
type QueueConfig struct {
	// Target is the namespace of the catalog (geo, bedbase).
	Target string

	// Tag is the tag of uploaded projects.
	Tag string

	// Period is the length of a window in days.
	Period int

	// CycleCount tells the checker how many periods back to look.
	CycleCount int

	// StartPeriod and EndPeriod define an explicit window (YYYY/MM/DD).
	StartPeriod string
	EndPeriod   string

	// GSE is a single accession to upload.
	GSE string
}

const (
	// MinFetchTimeout is the shortest allowed fetch deadline.
	MinFetchTimeout = 2 * time.Minute
	// MaxFetchTimeout is the longest allowed fetch deadline.
	MaxFetchTimeout = 4 * time.Minute
)

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "pephub",
			SSLMode:  "disable",
		},
		GEO: GEOConfig{
			EutilsURL:         "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			RequestsPerSecond: 3,
			Discovery:         "eutils",
			RetMax:            5_000,
		},
		Fetch: FetchConfig{
			Timeout: 3 * time.Minute,
			SoftURL: "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi",
		},
		Catalog: CatalogConfig{
			PepSchema: "pep/2.1.0",
		},
		Metrics: MetricsConfig{
			Job: AppName,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		Queue: QueueConfig{
			Target:     "geo",
			Tag:        "default",
			Period:     1,
			CycleCount: 1,
		},
	}

	return res
}
