package iodb_test

import (
	"errors"
	"testing"

	"github.com/gnames/geopephub/internal/iodb"
	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	orig := errors.New("connection refused")

	tests := []struct {
		msg     string
		err     error
		code    gn.ErrorCode
		wrapped bool
	}{
		{"connection", iodb.ConnectionError("localhost", 5432, "pephub", "postgres", orig),
			errcode.DBConnectionError, true},
		{"not connected", iodb.NotConnectedError(), errcode.DBNotConnectedError, false},
		{"table check", iodb.TableCheckError(orig), errcode.DBTableCheckError, true},
		{"table exists", iodb.TableExistsCheckError("projects", orig),
			errcode.DBTableExistsCheckError, true},
		{"drop table", iodb.DropTableError("projects", orig), errcode.DBDropTableError, true},
		{"lock", iodb.LockError("geo|a|b", orig), errcode.DBLockError, true},
		{"lock held", iodb.LockHeldError("geo|a|b"), errcode.DBLockHeldError, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "error should be *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			require.NotNil(t, gnErr.Err)
			if tt.wrapped {
				assert.ErrorIs(t, gnErr.Err, orig)
			}
		})
	}
}

func TestConnectionErrorVars(t *testing.T) {
	err := iodb.ConnectionError("db.host", 6432, "pephub", "alice", errors.New("x"))
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, []any{"db.host", 6432, "pephub", "alice"}, gnErr.Vars)
	assert.Contains(t, gnErr.Err.Error(), "db.host:6432/pephub")
}
