package pipeline_test

import (
	"testing"
	"time"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		msg, key, name, tag string
	}{
		{"simple", "proj1_tagA", "proj1", "tagA"},
		{"geo raw", "GSE12345_raw", "GSE12345", "raw"},
		{"underscore in name", "my_proj_samples", "my_proj", "samples"},
		{"no tag", "GSE1", "GSE1", ""},
		{"trailing underscore", "GSE1_", "GSE1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			name, tag := pipeline.ParseKey(tt.key)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.tag, tag)
		})
	}
}

func TestAddBacklink(t *testing.T) {
	res := pipeline.AddBacklink("GSE1", "Some study")
	assert.Equal(t,
		"Data from [GEO GSE1](https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi?acc=GSE1)\nSome study",
		res,
	)

	res = pipeline.AddBacklink("GSE2", "")
	assert.Equal(t,
		"Data from [GEO GSE2](https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi?acc=GSE2)",
		res,
	)
}

func TestRegistryPath(t *testing.T) {
	assert.Equal(t, "geo/proj1:tagA", pipeline.RegistryPath("geo", "proj1", "tagA"))
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		msg        string
		start, end string
		isErr      bool
	}{
		{"ok", "2023/10/22", "2023/10/24", false},
		{"same day", "2023/10/22", "2023/10/22", false},
		{"reversed", "2023/10/24", "2023/10/22", true},
		{"bad start", "2023-10-22", "2023/10/24", true},
		{"bad end", "2023/10/22", "tomorrow", true},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			w, err := pipeline.NewWindow(tt.start, tt.end)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestWindowHelpers(t *testing.T) {
	today := time.Date(2023, 10, 24, 15, 0, 0, 0, time.UTC)

	w := pipeline.LastDays(today, 2)
	assert.Equal(t, "2023/10/22", w.Start)
	assert.Equal(t, "2023/10/24", w.End)

	w = pipeline.PeriodsBack(today, 3, 2)
	assert.Equal(t, "2023/10/15", w.Start)
	assert.Equal(t, "2023/10/18", w.End)

	w = pipeline.PeriodsBack(today, 1, 0)
	assert.Equal(t, "2023/10/23", w.Start)
	assert.Equal(t, "2023/10/24", w.End)

	assert.Equal(t, "geo|2023/10/23|2023/10/24", w.Key("geo"))
	assert.Equal(t, "2023/10/23-2023/10/24", w.String())
}
