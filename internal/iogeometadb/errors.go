package iogeometadb

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// OpenError is returned when a GEOmetadb file cannot be opened.
func OpenError(path string, err error) error {
	msg := `Cannot open GEOmetadb file <em>%s</em>

Download GEOmetadb.sqlite and set geo.geometadb_path in config.yaml,
or use geo.discovery: eutils.`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.DiscoveryMetadbError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("opening %s: %w", path, err),
	}
}

// QueryError is returned when GEOmetadb cannot be searched.
func QueryError(window string, err error) error {
	msg := "Cannot search GEOmetadb for window <em>%s</em>"
	vars := []any{window}

	return &gn.Error{
		Code: errcode.DiscoveryMetadbError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("querying window %s: %w", window, err),
	}
}
