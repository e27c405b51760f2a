package iogeo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/target"
)

type searchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type discoverer struct {
	c *Client
}

// NewDiscoverer creates a Discoverer that searches the GEO DataSets
// database with ESearch.
func NewDiscoverer(c *Client) pipeline.Discoverer {
	return &discoverer{c: c}
}

// Query returns the ESearch term for series of a target published
// within the window.
func Query(t target.Target, w pipeline.Window) string {
	res := fmt.Sprintf(`GSE[ETYP] AND ("%s"[PDAT] : "%s"[PDAT])`, w.Start, w.End)
	if f := t.DiscoveryFilter(); f != "" {
		res += " AND " + f
	}
	return res
}

// Discover implements pipeline.Discoverer. Results are paged by the
// configured retmax.
func (d *discoverer) Discover(
	ctx context.Context,
	t target.Target,
	w pipeline.Window,
) ([]string, error) {
	term := Query(t, w)
	var res []string
	seen := make(map[string]struct{})

	for start := 0; ; start += d.c.retMax {
		sr, err := d.search(ctx, term, start)
		if err != nil {
			return nil, SearchError(term, err)
		}

		for _, v := range sr.ESearchResult.IDList {
			gse, ok := uidToGSE(v)
			if !ok {
				continue
			}
			if _, ok := seen[gse]; ok {
				continue
			}
			seen[gse] = struct{}{}
			res = append(res, gse)
		}

		total, err := strconv.Atoi(sr.ESearchResult.Count)
		if err != nil {
			return nil, SearchError(term, fmt.Errorf("bad count: %w", err))
		}
		if len(sr.ESearchResult.IDList) == 0 || start+d.c.retMax >= total {
			break
		}
	}
	return res, nil
}

func (d *discoverer) search(
	ctx context.Context,
	term string,
	start int,
) (searchResponse, error) {
	var res searchResponse

	params := url.Values{}
	params.Set("db", "gds")
	params.Set("term", term)
	params.Set("retstart", strconv.Itoa(start))
	params.Set("retmax", strconv.Itoa(d.c.retMax))
	params.Set("retmode", "json")
	d.c.commonParams(params)

	u := fmt.Sprintf("%s/esearch.fcgi?%s", d.c.eutilsURL, params.Encode())
	body, err := d.c.get(ctx, u)
	if err != nil {
		return res, err
	}

	if err := json.Unmarshal(body, &res); err != nil {
		return res, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

// uidToGSE converts a GEO DataSets UID of a series into its accession.
// Series UIDs are 2 followed by the zero padded accession number, for
// example 200123456 is GSE123456.
func uidToGSE(uid string) (string, bool) {
	if len(uid) < 2 || uid[0] != '2' {
		return "", false
	}
	num := strings.TrimLeft(uid[1:], "0")
	if num == "" {
		return "", false
	}
	if _, err := strconv.Atoi(num); err != nil {
		return "", false
	}
	return "GSE" + num, true
}
