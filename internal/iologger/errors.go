package iologger

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError is returned when the log file cannot be opened.
// Setting log.destination to stderr avoids the file altogether.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open log file <em>%s</em>
   Check permissions or set <em>GEOPEPHUB_LOG_DESTINATION=stderr</em>.`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("open log file %s: %w", path, err),
	}
}
