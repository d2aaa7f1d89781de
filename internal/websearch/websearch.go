// Package websearch is a client for the Google Programmable Search JSON API.
package websearch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	apiURL          = "https://www.googleapis.com/customsearch/v1"
	userAgent       = "spigell/resume-matcher"
	contentEncoding = "gzip"
	// The API caps a single page at 10 results.
	maxResults = 10
)

// Result is one search hit in engine rank order.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchError reports a non-2xx answer from the search API.
type SearchError struct {
	StatusCode int
	Status     string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search api bad status: %s", e.Status)
}

type itemResponse struct {
	Items []Item `json:"items"`
}

// Item is a raw result object as returned by the API.
type Item interface{}

type Client struct {
	apiKey     string
	engineID   string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns a client for the given API key and search engine id.
func New(logger *zap.Logger, apiKey, engineID string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	engineID = strings.TrimSpace(engineID)
	if apiKey == "" {
		return nil, errors.New("search api key is required")
	}
	if engineID == "" {
		return nil, errors.New("search engine id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:   apiKey,
		engineID: engineID,
		logger:   logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
	}, nil
}

// Search returns up to num results for query. No hits is an empty slice.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if num <= 0 || num > maxResults {
		num = maxResults
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))

	items, err := c.getItems(ctx, q)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &results,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode search items: %w", err)
	}

	c.logger.Debug("got response from search api", zap.String("query", query), zap.Int("results", len(results)))

	return results, nil
}

func (c *Client) getItems(ctx context.Context, q url.Values) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make request", zap.String("url", redact(req.URL)))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SearchError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response itemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return response.Items, nil
}

// redact hides the api key in logged URLs.
func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
	}
	c.RawQuery = q.Encode()
	return c.String()
}
