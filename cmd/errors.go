package cmd

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/pkg/errcode"
)

func invalidGSEError(gse string) error {
	msg := "<em>%s</em> is not a GEO series accession, use GSE12345 form"
	vars := []any{gse}

	return &gn.Error{
		Code: errcode.InvalidGSEError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid accession %q", gse),
	}
}

func invalidFormatError(format string) error {
	msg := "Unknown output format <em>%s</em>, use text, json or yaml"
	vars := []any{format}

	return &gn.Error{
		Code: errcode.InvalidFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown format %q", format),
	}
}

// exitError prints an error of a queue command and decides if it
// should end the process with a non-zero status. Discovery failures
// are already recorded as a failed cycle for the checker, so they do
// not.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	gn.PrintErrorMessage(err)

	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		switch gnErr.Code {
		case errcode.DiscoverySearchError, errcode.DiscoveryMetadbError:
			logger.Warn("Discovery failed", "error", err)
			return nil
		}
	}
	return err
}
