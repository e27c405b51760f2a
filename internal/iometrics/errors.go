package iometrics

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// PushError is returned when the Pushgateway does not accept metrics.
func PushError(url string, err error) error {
	msg := "Cannot push metrics to <em>%s</em>"
	vars := []any{url}

	return &gn.Error{
		Code: errcode.MetricsPushError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("pushing metrics to %s: %w", url, err),
	}
}
