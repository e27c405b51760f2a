package config

import (
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptGEOEutilsURL sets the base URL of NCBI E-utilities.
func OptGEOEutilsURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("GEO E-utilities URL", s) {
			c.GEO.EutilsURL = s
		}
	}
}

// OptGEOAPIKey sets NCBI API key. Empty value removes the key.
func OptGEOAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.GEO.APIKey = s
	}
}

// OptGEOEmail sets the contact email sent to NCBI.
func OptGEOEmail(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.GEO.Email = s
	}
}

// OptGEORequestsPerSecond limits the rate of requests to NCBI.
func OptGEORequestsPerSecond(i int) Option {
	return func(c *Config) {
		if isValidInt("GEO Requests Per Second", i) {
			c.GEO.RequestsPerSecond = i
		}
	}
}

// OptGEODiscovery selects the source of accessions.
// Valid values: "eutils", "geometadb".
func OptGEODiscovery(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("GEO.Discovery", s) {
			c.GEO.Discovery = s
		}
	}
}

// OptGEOmetadbPath sets the path to GEOmetadb SQLite file.
func OptGEOmetadbPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("GEOmetadb Path", s) {
			c.GEO.GEOmetadbPath = s
		}
	}
}

// OptGEORetMax sets the page size of esearch results.
func OptGEORetMax(i int) Option {
	return func(c *Config) {
		if isValidInt("GEO RetMax", i) {
			c.GEO.RetMax = i
		}
	}
}

// OptFetchTimeout sets the deadline for fetching one accession.
// Values outside of 2-4 minutes are ignored.
func OptFetchTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d < MinFetchTimeout || d > MaxFetchTimeout {
			gn.Warn(
				"<em>Fetch Timeout</em> must be between %s and %s, ignoring %s",
				MinFetchTimeout, MaxFetchTimeout, d,
			)
			return
		}
		c.Fetch.Timeout = d
	}
}

// OptFetchSoftURL sets the address that serves SOFT documents.
func OptFetchSoftURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fetch SOFT URL", s) {
			c.Fetch.SoftURL = s
		}
	}
}

// OptCatalogPepSchema sets the schema recorded with projects.
func OptCatalogPepSchema(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog PEP Schema", s) {
			c.Catalog.PepSchema = s
		}
	}
}

// OptCatalogPrivate marks created projects as private.
func OptCatalogPrivate(b bool) Option {
	return func(c *Config) {
		c.Catalog.Private = b
	}
}

// OptMetricsPushgatewayURL sets Pushgateway address. Empty value
// disables pushing of metrics.
func OptMetricsPushgatewayURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Metrics.PushgatewayURL = s
	}
}

// OptMetricsJob sets the job label of pushed metrics.
func OptMetricsJob(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics Job", s) {
			c.Metrics.Job = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptQueueTarget sets the namespace of the catalog.
// Runtime-only field - not in ToOptions().
// Names are not checked here. An unknown target reaches the queue,
// which records the cycle as failed.
func OptQueueTarget(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidString("Queue Target", s) {
			c.Queue.Target = s
		}
	}
}

// OptQueueTag sets the tag of uploaded projects.
// Runtime-only field - not in ToOptions().
func OptQueueTag(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Tag", s) {
			c.Queue.Tag = s
		}
	}
}

// OptQueuePeriod sets the length of a window in days.
// Runtime-only field - not in ToOptions().
func OptQueuePeriod(i int) Option {
	return func(c *Config) {
		if isValidInt("Period", i) {
			c.Queue.Period = i
		}
	}
}

// OptQueueCycleCount sets how many periods back the checker looks.
// Zero means the current period.
// Runtime-only field - not in ToOptions().
func OptQueueCycleCount(i int) Option {
	return func(c *Config) {
		if i < 0 {
			gn.Warn("<em>Cycle Count</em> cannot be negative, ignoring %d", i)
			return
		}
		c.Queue.CycleCount = i
	}
}

// OptQueueStartPeriod sets the first day of an explicit window.
// Runtime-only field - not in ToOptions().
func OptQueueStartPeriod(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidDate("Start Period", s) {
			c.Queue.StartPeriod = s
		}
	}
}

// OptQueueEndPeriod sets the last day of an explicit window.
// Runtime-only field - not in ToOptions().
func OptQueueEndPeriod(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidDate("End Period", s) {
			c.Queue.EndPeriod = s
		}
	}
}

// OptQueueGSE sets a single accession to upload.
// Runtime-only field - not in ToOptions().
func OptQueueGSE(s string) Option {
	s = strings.ToUpper(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidGSE(s) {
			c.Queue.GSE = s
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
