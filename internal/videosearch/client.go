// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

/*
client.go - Video Search REST API Client

This file implements a REST client for a YouTube Data API v3 compatible
search endpoint. It returns raw video candidates; relevance scoring and
ranking happen in the recommend package.

API Reference: https://developers.google.com/youtube/v3/docs/search/list
*/

package videosearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/models"
)

// resultsPerQuery is how many videos a single search query requests.
const resultsPerQuery = 5

// ClientInterface defines the video search operations.
// Both Client and CircuitBreakerClient implement this interface.
type ClientInterface interface {
	Search(ctx context.Context, query string) ([]models.VideoCandidate, error)
	Ping(ctx context.Context) error
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to the video search REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// searchResponse mirrors the subset of the search list response we consume.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
		Thumbnails   struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// NewClient creates a new video search API client
//
// Parameters:
//   - baseURL: search API URL (e.g., https://www.googleapis.com/youtube/v3)
//   - apiKey: API key for the search service
//   - timeout: per-request timeout; zero uses a 10 second default
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	// Normalize URL (remove trailing slash)
	baseURL = strings.TrimSuffix(baseURL, "/")

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search runs a single search query and maps the results to video
// candidates. Items without a video ID (channels, playlists) are skipped.
// RelevanceScore is left zero for the scorer to fill in.
func (c *Client) Search(ctx context.Context, query string) ([]models.VideoCandidate, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(resultsPerQuery))

	resp, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return nil, fmt.Errorf("video search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("video search returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("video search returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode video search response: %w", err)
	}

	candidates := make([]models.VideoCandidate, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		candidates = append(candidates, models.VideoCandidate{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Channel:      item.Snippet.ChannelTitle,
			Description:  item.Snippet.Description,
			PublishedAt:  item.Snippet.PublishedAt,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		})
	}

	return candidates, nil
}

// Ping tests connectivity with a minimal search request.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", "test")
	params.Set("maxResults", "1")

	resp, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return fmt.Errorf("video search ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("video search ping returned status %d", resp.StatusCode)
	}

	return nil
}

// doRequest performs an HTTP GET request against the search API
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	params.Set("key", c.apiKey)
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}
