// Package youtube searches videos for a learning topic.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/skillhive/skillhive-go/internal/model"
)

const (
	DefaultSearchURL  = "https://www.googleapis.com/youtube/v3/search"
	DefaultMaxResults = 10
	DefaultOrder      = "viewCount"
)

// Client wraps the search endpoint. It never retries.
type Client struct {
	apiKey     string
	searchURL  string
	maxResults int
	order      string
	httpClient *http.Client
	log        zerolog.Logger
	calls      *prometheus.CounterVec
}

// Option configures a Client.
type Option func(*Client)

// WithSearchURL overrides the endpoint (for testing).
func WithSearchURL(u string) Option {
	return func(c *Client) { c.searchURL = u }
}

func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithOrder sets the order parameter. An empty order omits it.
func WithOrder(order string) Option {
	return func(c *Client) { c.order = order }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCallCounter counts searches by outcome under the label adapter="youtube".
func WithCallCounter(cv *prometheus.CounterVec) Option {
	return func(c *Client) { c.calls = cv }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		searchURL:  DefaultSearchURL,
		maxResults: DefaultMaxResults,
		order:      DefaultOrder,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the videos found for query+method. Any failure is logged and
// yields an empty, non-nil slice.
func (c *Client) Search(ctx context.Context, query, method string) []model.VideoRecord {
	videos, err := c.Fetch(ctx, query, method)
	if err != nil {
		c.log.Error().Err(err).Str("query", query).Str("method", method).Msg("error while fetching videos")
		c.count("error")
		return []model.VideoRecord{}
	}
	c.count("ok")
	return videos
}

// Fetch performs the search and reports failures to the caller.
func (c *Client) Fetch(ctx context.Context, query, method string) ([]model.VideoRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(query, method), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if sr.Error != nil {
		return nil, fmt.Errorf("search api error %d: %s", sr.Error.Code, sr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return toRecords(sr.Items, c.log), nil
}

func (c *Client) requestURL(query, method string) string {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query+method)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("type", "video")
	if c.order != "" {
		params.Set("order", c.order)
	}
	params.Set("key", c.apiKey)
	return c.searchURL + "?" + params.Encode()
}

func (c *Client) count(outcome string) {
	if c.calls != nil {
		c.calls.WithLabelValues("youtube", outcome).Inc()
	}
}

// toRecords maps items one-to-one, dropping those without a video id.
func toRecords(items []searchItem, log zerolog.Logger) []model.VideoRecord {
	videos := make([]model.VideoRecord, 0, len(items))
	for _, it := range items {
		if it.ID.VideoID == "" {
			log.Debug().Str("kind", it.ID.Kind).Msg("skipping search item without videoId")
			continue
		}
		videos = append(videos, model.VideoRecord{
			Title:       it.Snippet.Title,
			URL:         model.WatchURL(it.ID.VideoID),
			Description: it.Snippet.Description,
			PublishedAt: it.Snippet.PublishedAt,
			Thumbnail:   it.Snippet.Thumbnails.best(),
		})
	}
	return videos
}
