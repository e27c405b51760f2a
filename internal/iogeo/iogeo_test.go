package iogeo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/target"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesSOFT = `^DATABASE = GeoMiame
!Database_name = Gene Expression Omnibus (GEO)
^SERIES = GSE123
!Series_title = Liver time course
!Series_summary = Mice were fed.
!Series_type = Expression profiling by high throughput sequencing
!Series_contributor = Doe,,J
!Series_contributor = Roe,,R
!Series_sample_id = GSM1
!Series_sample_id = GSM2
`

const samplesSOFT = `^SAMPLE = GSM1
!Sample_title = Liver rep 1
!Sample_organism_ch1 = Mus musculus
!Sample_characteristics_ch1 = tissue: liver
!Sample_characteristics_ch1 = age: 8 weeks
!Sample_supplementary_file_1 = ftp://ftp.ncbi.nlm.nih.gov/geo/GSM1_peaks.narrowPeak.gz
!Sample_supplementary_file_2 = ftp://ftp.ncbi.nlm.nih.gov/geo/GSM1_counts.txt.gz
!sample_table_begin
ID_REF	VALUE
1	2
!sample_table_end
^SAMPLE = GSM2
!Sample_title = Liver rep 2
!Sample_organism_ch1 = Mus musculus
!Sample_characteristics_ch1 = tissue: liver
!Sample_supplementary_file_1 = NONE
`

func newClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptGEOEutilsURL(srv.URL + "/eutils/"),
		config.OptFetchSoftURL(srv.URL + "/acc.cgi"),
		config.OptGEORequestsPerSecond(1000),
		config.OptGEORetMax(2),
		config.OptGEOAPIKey("secret"),
	})
	return NewClient(cfg)
}

func TestQuery(t *testing.T) {
	w := pipeline.Window{Start: "2023/10/22", End: "2023/10/24"}
	assert.Equal(t,
		`GSE[ETYP] AND ("2023/10/22"[PDAT] : "2023/10/24"[PDAT])`,
		Query(target.Geo, w),
	)
	assert.Equal(t,
		`GSE[ETYP] AND ("2023/10/22"[PDAT] : "2023/10/24"[PDAT]) AND (bed)`,
		Query(target.BedBase, w),
	)
}

func TestUIDToGSE(t *testing.T) {
	tests := []struct {
		uid string
		gse string
		ok  bool
	}{
		{"200123456", "GSE123456", true},
		{"200000012", "GSE12", true},
		{"100001234", "", false},
		{"2", "", false},
		{"200000000", "", false},
		{"2abc", "", false},
	}
	for _, tt := range tests {
		gse, ok := uidToGSE(tt.uid)
		assert.Equal(t, tt.ok, ok, tt.uid)
		assert.Equal(t, tt.gse, gse, tt.uid)
	}
}

func TestDiscover(t *testing.T) {
	pages := map[string]string{
		"0": `{"esearchresult":{"count":"3","idlist":["200000003","200000002"]}}`,
		"2": `{"esearchresult":{"count":"3","idlist":["200000001","200000002"]}}`,
	}
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "/eutils/esearch.fcgi", r.URL.Path)
		assert.Equal(t, "gds", q.Get("db"))
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Contains(t, q.Get("term"), "(bed)")
		fmt.Fprint(w, pages[q.Get("retstart")])
	}))

	d := NewDiscoverer(c)
	w := pipeline.Window{Start: "2023/10/22", End: "2023/10/24"}
	res, err := d.Discover(context.Background(), target.BedBase, w)
	require.NoError(t, err)
	assert.Equal(t, []string{"GSE3", "GSE2", "GSE1"}, res)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDiscoverEmpty(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"count":"0","idlist":[]}}`)
	}))
	res, err := NewDiscoverer(c).Discover(context.Background(), target.Geo,
		pipeline.Window{Start: "2023/10/22", End: "2023/10/22"})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDiscoverError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	_, err := NewDiscoverer(c).Discover(context.Background(), target.Geo,
		pipeline.Window{Start: "2023/10/22", End: "2023/10/24"})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DiscoverySearchError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "503")
}

func softHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "text", q.Get("form"))
		switch {
		case q.Get("acc") != "GSE123":
			fmt.Fprint(w, "")
		case q.Get("targ") == "self":
			fmt.Fprint(w, seriesSOFT)
		case q.Get("targ") == "gsm":
			fmt.Fprint(w, samplesSOFT)
		}
	})
}

func TestFetchRaw(t *testing.T) {
	f := NewFetcher(newClient(t, softHandler(t)))
	subs, err := f.Fetch(context.Background(), target.Geo, "GSE123")
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "GSE123", sub.Name)
	assert.Equal(t, "raw", sub.Tag)
	assert.Equal(t, "Liver time course", sub.Description)
	assert.Equal(t, "GSE123", sub.Config["name"])

	meta, ok := sub.Config["experiment_metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"Doe,,J", "Roe,,R"}, meta["series_contributor"])

	require.Len(t, sub.Samples, 2)
	s1 := sub.Samples[0]
	assert.Equal(t, "liver_rep_1", s1["sample_name"])
	assert.Equal(t, "GSM1", s1["sample_geo_accession"])
	assert.Equal(t, "liver", s1["tissue"])
	assert.Equal(t, "8 weeks", s1["age"])
	assert.Equal(t, "Mus musculus", s1["sample_organism_ch1"])
	assert.NotContains(t, s1, "id_ref")
}

func TestFetchProcessed(t *testing.T) {
	f := NewFetcher(newClient(t, softHandler(t)))
	subs, err := f.Fetch(context.Background(), target.BedBase, "GSE123")
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "samples", sub.Tag)
	require.Len(t, sub.Samples, 1)
	assert.Equal(t, "GSM1_peaks.narrowPeak.gz", sub.Samples[0]["file_name"])
	assert.Equal(t, "GSM1", sub.Samples[0]["sample_geo_accession"])
}

func TestFetchNoData(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("targ") == "self" {
			fmt.Fprint(w, seriesSOFT)
		}
	})
	subs, err := NewFetcher(newClient(t, h)).Fetch(context.Background(), target.Geo, "GSE123")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestFetchErrors(t *testing.T) {
	t.Run("http", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		_, err := NewFetcher(newClient(t, h)).Fetch(context.Background(), target.Geo, "GSE1")
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.FetchRequestError, gnErr.Code)
	})

	t.Run("no series", func(t *testing.T) {
		f := NewFetcher(newClient(t, softHandler(t)))
		_, err := f.Fetch(context.Background(), target.Geo, "GSE999")
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.FetchParseError, gnErr.Code)
	})

	t.Run("deadline", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := NewFetcher(newClient(t, h)).Fetch(ctx, target.Geo, "GSE1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestParseSOFT(t *testing.T) {
	recs := parseSOFT([]byte(samplesSOFT))
	require.Len(t, recs, 2)
	assert.Equal(t, "SAMPLE", recs[0].kind)
	assert.Equal(t, "GSM1", recs[0].acc)
	assert.Equal(t, []string{"tissue: liver", "age: 8 weeks"},
		recs[0].values("Sample_characteristics_ch1"))
	assert.Len(t, recs[0].attrs, 6)
	assert.Equal(t, "", recs[1].first("Sample_missing"))
}
