package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotConnectedError(t *testing.T) {
	gnErr, ok := NotConnectedError().(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
}

func TestErrorWrapping(t *testing.T) {
	orig := errors.New("original")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{"gorm", GORMConnectionError(orig), errcode.SchemaGORMConnectionError},
		{"create", CreateSchemaError(orig), errcode.SchemaCreateError},
		{"migrate", MigrateSchemaError(orig), errcode.SchemaMigrateError},
		{"catalog", CatalogSchemaError("projects", orig), errcode.CatalogSchemaError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.ErrorIs(t, gnErr.Err, orig)
		})
	}
}
