package iogeo

import (
	"context"
	"errors"
	"maps"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/target"
	"golang.org/x/sync/errgroup"
)

const pepVersion = "2.1.0"

type fetcher struct {
	c *Client
}

// NewFetcher creates a Fetcher that downloads SOFT documents of a
// series and of its samples.
func NewFetcher(c *Client) pipeline.Fetcher {
	return &fetcher{c: c}
}

// Fetch implements pipeline.Fetcher. The series and sample documents
// are downloaded concurrently.
func (f *fetcher) Fetch(
	ctx context.Context,
	t target.Target,
	gse string,
) ([]pipeline.SubProject, error) {
	var seriesDoc, samplesDoc []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seriesDoc, err = f.c.get(gctx, f.softURL(gse, "self"))
		return err
	})
	g.Go(func() error {
		var err error
		samplesDoc, err = f.c.get(gctx, f.softURL(gse, "gsm"))
		return err
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, FetchError(gse, err)
	}

	series, ok := findRecord(parseSOFT(seriesDoc), "SERIES")
	if !ok {
		return nil, ParseError(gse, errors.New("no SERIES record"))
	}

	var samples []record
	for _, v := range parseSOFT(samplesDoc) {
		if v.kind == "SAMPLE" {
			samples = append(samples, v)
		}
	}

	var rows []map[string]string
	switch t.Mode() {
	case target.ModeProcessed:
		rows = processedRows(t, samples)
	default:
		rows = rawRows(samples)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	sub := pipeline.SubProject{
		Name:        gse,
		Tag:         t.SubProjectTag(),
		Description: series.first("Series_title"),
		Config:      projectConfig(gse, series),
		Samples:     rows,
	}
	return []pipeline.SubProject{sub}, nil
}

func (f *fetcher) softURL(gse, targ string) string {
	params := url.Values{}
	params.Set("acc", gse)
	params.Set("targ", targ)
	params.Set("form", "text")
	params.Set("view", "brief")
	return f.c.softURL + "?" + params.Encode()
}

func findRecord(recs []record, kind string) (record, bool) {
	for _, v := range recs {
		if v.kind == kind {
			return v, true
		}
	}
	return record{}, false
}

// projectConfig keeps series level metadata as the project config.
func projectConfig(gse string, series record) map[string]any {
	meta := make(map[string]any)
	for _, k := range []string{
		"Series_title", "Series_summary", "Series_overall_design",
		"Series_type", "Series_submission_date", "Series_last_update_date",
		"Series_pubmed_id", "Series_contributor", "Series_platform_id",
	} {
		vals := series.values(k)
		switch len(vals) {
		case 0:
		case 1:
			meta[strings.ToLower(k)] = vals[0]
		default:
			meta[strings.ToLower(k)] = vals
		}
	}
	return map[string]any{
		"name":                gse,
		"pep_version":         pepVersion,
		"sample_table":        "sample_table.csv",
		"experiment_metadata": meta,
	}
}

// sampleRow flattens a sample record. Characteristics "key: value"
// become separate columns, repeated keys are joined with "; ".
func sampleRow(s record) map[string]string {
	res := map[string]string{
		"sample_geo_accession": s.acc,
	}
	for _, v := range s.attrs {
		key := strings.ToLower(v.key)
		val := v.value
		if strings.HasPrefix(key, "sample_characteristics") {
			if k, cv, ok := strings.Cut(val, ":"); ok {
				key = sanitize(k)
				val = strings.TrimSpace(cv)
			}
		}
		if old, ok := res[key]; ok && old != val {
			val = old + "; " + val
		}
		res[key] = val
	}
	res["sample_name"] = sanitize(s.first("Sample_title"))
	if res["sample_name"] == "" {
		res["sample_name"] = strings.ToLower(s.acc)
	}
	return res
}

func rawRows(samples []record) []map[string]string {
	res := make([]map[string]string, 0, len(samples))
	for _, v := range samples {
		res = append(res, sampleRow(v))
	}
	return res
}

// processedRows makes one row per supplementary file accepted by the
// target.
func processedRows(t target.Target, samples []record) []map[string]string {
	var res []map[string]string
	for _, s := range samples {
		base := sampleRow(s)
		for _, a := range s.attrs {
			if !strings.HasPrefix(a.key, "Sample_supplementary_file") {
				continue
			}
			if a.value == "" || strings.EqualFold(a.value, "NONE") {
				continue
			}
			file := path.Base(a.value)
			if !t.KeepFile(file) {
				continue
			}
			row := maps.Clone(base)
			row["file"] = a.value
			row["file_name"] = file
			res = append(res, row)
		}
	}
	return res
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// sanitize makes a lowercase identifier of letters, digits and
// underscores.
func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWord.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
