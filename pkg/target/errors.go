package target

import (
	"fmt"
	"strings"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// UnknownTargetError is returned for a namespace outside of the known
// set.
func UnknownTargetError(name string) error {
	msg := "Unknown target <em>%s</em>, use one of: %s"
	vars := []any{name, strings.Join(Names(), ", ")}
	return &gn.Error{
		Code: errcode.UnknownTargetError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown target %q", name),
	}
}
