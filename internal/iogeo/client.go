// Package iogeo talks to NCBI GEO. It finds series published in a
// window with E-utilities and converts SOFT documents of a series into
// catalog projects. This is an impure I/O package.
package iogeo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gnames/geopephub/pkg/config"
	"golang.org/x/time/rate"
)

const toolName = "geopephub"

// Client sends rate limited requests to NCBI. NCBI allows 3 requests
// per second without an API key and 10 with one.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	eutilsURL  string
	softURL    string
	apiKey     string
	email      string
	retMax     int
}

// NewClient creates a Client from GEO and fetch settings.
func NewClient(cfg *config.Config) *Client {
	rps := cfg.GEO.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	retMax := cfg.GEO.RetMax
	if retMax <= 0 {
		retMax = 5000
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		eutilsURL:  cfg.GEO.EutilsURL,
		softURL:    cfg.Fetch.SoftURL,
		apiKey:     cfg.GEO.APIKey,
		email:      cfg.GEO.Email,
		retMax:     retMax,
	}
}

// get waits for the limiter and returns the body of a successful
// response.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// commonParams adds identification of the tool to a query.
func (c *Client) commonParams(params url.Values) {
	params.Set("tool", toolName)
	if c.email != "" {
		params.Set("email", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
}
