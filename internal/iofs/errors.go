package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateDirError is returned when a directory of the app cannot be
// created.
func CreateDirError(dir string, err error) error {
	msg := "Cannot create directory <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create directory: %w",
			caller(), err),
	}
}

// CopyFileError is returned when the default config cannot be written.
func CopyFileError(file string, err error) error {
	msg := "Cannot write default config to <em>%s</em>"
	vars := []any{file}
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot copy file: %w",
			caller(), err),
	}
}

// ReadFileError is returned when a file exists but cannot be read or
// parsed.
func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", caller(), path, err),
	}
}

// caller returns the name of the function that called an error
// constructor.
func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}
