package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	orig := errors.New("permission denied")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		path string
	}{
		{"create dir", CreateDirError("/test/dir", orig), errcode.CreateDirError, "/test/dir"},
		{"copy file", CopyFileError("/test/config.yaml", orig), errcode.CopyFileError, "/test/config.yaml"},
		{"read file", ReadFileError("/test/config.yaml", orig), errcode.ReadFileError, "/test/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "error should be *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "<em>%s</em>")
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, tt.path, gnErr.Vars[0])
			assert.ErrorIs(t, gnErr.Err, orig)
			// the constructor reports who called it
			assert.Contains(t, gnErr.Err.Error(), "TestErrors")
		})
	}
}
