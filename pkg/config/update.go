package config

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir and Queue).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.GEO.EutilsURL
	if s != "" {
		res = append(res, OptGEOEutilsURL(s))
	}
	s = c.GEO.APIKey
	if s != "" {
		res = append(res, OptGEOAPIKey(s))
	}
	s = c.GEO.Email
	if s != "" {
		res = append(res, OptGEOEmail(s))
	}
	i = c.GEO.RequestsPerSecond
	if i > 0 {
		res = append(res, OptGEORequestsPerSecond(i))
	}
	s = c.GEO.Discovery
	if s != "" {
		res = append(res, OptGEODiscovery(s))
	}
	s = c.GEO.GEOmetadbPath
	if s != "" {
		res = append(res, OptGEOmetadbPath(s))
	}
	i = c.GEO.RetMax
	if i > 0 {
		res = append(res, OptGEORetMax(i))
	}

	if c.Fetch.Timeout > 0 {
		res = append(res, OptFetchTimeout(c.Fetch.Timeout))
	}
	s = c.Fetch.SoftURL
	if s != "" {
		res = append(res, OptFetchSoftURL(s))
	}

	s = c.Catalog.PepSchema
	if s != "" {
		res = append(res, OptCatalogPepSchema(s))
	}
	res = append(res, OptCatalogPrivate(c.Catalog.Private))

	s = c.Metrics.PushgatewayURL
	if s != "" {
		res = append(res, OptMetricsPushgatewayURL(s))
	}
	s = c.Metrics.Job
	if s != "" {
		res = append(res, OptMetricsJob(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDate(name, s string) bool {
	_, err := time.Parse("2006/01/02", s)
	if err != nil {
		gn.Warn("<em>%s</em> must be in YYYY/MM/DD format, ignoring '%s'", name, s)
		return false
	}
	return true
}

var gsePattern = regexp.MustCompile(`^GSE\d+$`)

func isValidGSE(s string) bool {
	if !gsePattern.MatchString(s) {
		gn.Warn("<em>GSE</em> must look like GSE12345, ignoring '%s'", s)
		return false
	}
	return true
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"GEO.Discovery":   {"eutils": s, "geometadb": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
