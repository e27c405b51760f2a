package iogeo

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// SearchError is returned when ESearch fails.
func SearchError(term string, err error) error {
	msg := `GEO search failed for <em>%s</em>

Check network access to eutils.ncbi.nlm.nih.gov and the api_key
in the geo section of config.yaml.`
	vars := []any{term}

	return &gn.Error{
		Code: errcode.DiscoverySearchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("esearch %q: %w", term, err),
	}
}

// FetchError is returned when SOFT documents of a series cannot be
// downloaded.
func FetchError(gse string, err error) error {
	msg := "Cannot download metadata of <em>%s</em>"
	vars := []any{gse}

	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("fetching %s: %w", gse, err),
	}
}

// ParseError is returned when a SOFT document has unexpected content.
func ParseError(gse string, err error) error {
	msg := "Cannot read metadata of <em>%s</em>"
	vars := []any{gse}

	return &gn.Error{
		Code: errcode.FetchParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("parsing %s: %w", gse, err),
	}
}
