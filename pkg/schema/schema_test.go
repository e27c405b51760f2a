package schema_test

import (
	"strings"
	"testing"

	"github.com/gnames/geopephub/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "geo_cycle_status", schema.Cycle{}.TableName())
	assert.Equal(t, "geo_sample_status", schema.Item{}.TableName())
	assert.Equal(t, "projects", schema.Project{}.TableName())
}

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	require.Len(t, models, 2)
	assert.IsType(t, &schema.Cycle{}, models[0])
	assert.IsType(t, &schema.Item{}, models[1])
}

func TestStatus(t *testing.T) {
	tests := []struct {
		msg      string
		status   schema.Status
		terminal bool
		valid    bool
	}{
		{"initial", schema.StatusInitial, false, true},
		{"queued", schema.StatusQueued, false, true},
		{"processing", schema.StatusProcessing, false, true},
		{"success", schema.StatusSuccess, true, true},
		{"failure", schema.StatusFailure, true, true},
		{"warning", schema.StatusWarning, true, true},
		{"unknown", schema.Status("done"), false, false},
		{"empty", schema.Status(""), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}

func TestLogStageOrder(t *testing.T) {
	assert.Equal(t, schema.LogStage(0), schema.StageDiscovered)
	assert.Less(t, schema.StageDiscovered, schema.StageClaimed)
	assert.Less(t, schema.StageClaimed, schema.StageFetched)
	assert.Less(t, schema.StageFetched, schema.StageUploaded)
	assert.Equal(t, schema.LogStage(3), schema.StageUploaded)
}

func TestProjectTableDDL(t *testing.T) {
	p := schema.Project{}
	ddl := p.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS projects")
	assert.Contains(t, ddl, "id BIGSERIAL PRIMARY KEY")
	assert.Contains(t, ddl, "namespace VARCHAR(255) NOT NULL")
	assert.Contains(t, ddl, "config JSONB")
	assert.Contains(t, ddl, "samples JSONB")
	assert.Contains(t, ddl, "pep_schema VARCHAR(255)")
	assert.True(t, strings.HasSuffix(ddl, ");"))
}

func TestProjectIndexDDL(t *testing.T) {
	indexes := schema.Project{}.IndexDDL()
	require.NotEmpty(t, indexes)

	all := strings.Join(indexes, "\n")
	assert.Contains(t, all, "UNIQUE INDEX")
	assert.Contains(t, all, "projects(namespace, name, tag)")
}
