package cmd

import (
	"testing"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFlagsOptions(t *testing.T) {
	all := []funcFlag{
		targetFlag, tagFlag, periodFlag, cycleCountFlag, windowFlags, gseFlag,
	}

	tests := []struct {
		msg    string
		args   []string
		num    int
		expect config.QueueConfig
	}{
		{
			msg:    "defaults are not options",
			args:   nil,
			num:    0,
			expect: config.New().Queue,
		},
		{
			msg:  "changed flags",
			args: []string{"-t", "BedBase", "-p", "7", "-c", "3", "--tag", "v2"},
			num:  4,
			expect: config.QueueConfig{
				Target: "bedbase", Tag: "v2", Period: 7, CycleCount: 3,
			},
		},
		{
			msg:  "window and accession",
			args: []string{"-s", "2023/10/22", "-e", "2023/10/24", "-g", "gse42"},
			num:  3,
			expect: config.QueueConfig{
				Target: "geo", Tag: "default", Period: 1, CycleCount: 1,
				StartPeriod: "2023/10/22", EndPeriod: "2023/10/24", GSE: "GSE42",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			var f queueFlags
			cmd := &cobra.Command{Use: "test"}
			f.addFlags(cmd, all...)
			require.NoError(t, cmd.ParseFlags(tt.args))

			opts := f.options(cmd)
			assert.Len(t, opts, tt.num)

			c := config.New()
			c.Update(opts)
			assert.Equal(t, tt.expect, c.Queue)
		})
	}
}

func TestInvalidGSEError(t *testing.T) {
	err := invalidGSEError("GSM1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GSM1")
}
