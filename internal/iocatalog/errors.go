package iocatalog

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// WriteError is returned when a project cannot be written.
func WriteError(path string, err error) error {
	msg := "Cannot write project <em>%s</em> to the catalog"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.CatalogWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("writing %s: %w", path, err),
	}
}

// ProjectExistsError is returned when a project exists and overwrite
// is not allowed.
func ProjectExistsError(path string) error {
	msg := "Project <em>%s</em> already exists"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.CatalogProjectExistsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("project %s already exists", path),
	}
}

// CountError is returned when projects of a namespace cannot be counted.
func CountError(namespace string, err error) error {
	msg := "Cannot count projects of namespace <em>%s</em>"
	vars := []any{namespace}

	return &gn.Error{
		Code: errcode.CatalogCountError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("counting projects of %s: %w", namespace, err),
	}
}
