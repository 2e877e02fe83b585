// Package metadata enriches translation prompts with series and episode
// context from the TVDB catalog.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the versioned TVDB v4 API root.
	DefaultBaseURL = "https://api4.thetvdb.com/v4"

	// tokens are valid for a month; re-login a little early
	tokenValidity = 25 * 24 * time.Hour
)

// StatusError is a non-404 HTTP failure from the metadata service.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("metadata service returned status %d for %s", e.Code, e.Path)
}

// Translation is one localized series or episode record.
type Translation struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

type seriesCacheEntry struct {
	id    int
	found bool
}

// Client is a minimal TVDB v4 client. The bearer token and series lookups
// are cached in memory for the client's lifetime; both successful and
// not-found series lookups are cached.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string

	mu          sync.Mutex
	token       string
	tokenTime   time.Time
	seriesCache map[string]seriesCacheEntry

	now func() time.Time
}

func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		seriesCache: make(map[string]seriesCacheEntry),
		now:         time.Now,
	}
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Sub(c.tokenTime) < tokenValidity {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("metadata login failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Path: "/login"}
	}

	var decoded struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if decoded.Data.Token == "" {
		return "", fmt.Errorf("metadata login returned no token")
	}

	c.token = decoded.Data.Token
	c.tokenTime = c.now()
	return c.token, nil
}

// get performs an authenticated GET and decodes the body into out. A 404
// returns a *StatusError with Code 404 so callers can translate it to
// "no record" where that is the right reading.
func (c *Client) get(
	ctx context.Context,
	path string,
	params url.Values,
	out any,
) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build metadata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metadata request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode metadata response: %w", err)
	}
	return nil
}

// SearchSeries resolves a series name to its TVDB identifier. Results,
// including misses, are cached for the client's lifetime.
func (c *Client) SearchSeries(
	ctx context.Context,
	name string,
) (int, bool, error) {
	c.mu.Lock()
	if entry, ok := c.seriesCache[name]; ok {
		c.mu.Unlock()
		return entry.id, entry.found, nil
	}
	c.mu.Unlock()

	params := url.Values{}
	params.Set("query", name)
	params.Set("type", "series")

	var decoded struct {
		Data []struct {
			TVDBID string `json:"tvdb_id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/search", params, &decoded); err != nil {
		return 0, false, err
	}

	entry := seriesCacheEntry{}
	if len(decoded.Data) > 0 {
		id, err := strconv.Atoi(decoded.Data[0].TVDBID)
		if err != nil {
			return 0, false, fmt.Errorf(
				"metadata search returned malformed series id %q",
				decoded.Data[0].TVDBID,
			)
		}
		entry = seriesCacheEntry{id: id, found: true}
	}

	c.mu.Lock()
	c.seriesCache[name] = entry
	c.mu.Unlock()

	return entry.id, entry.found, nil
}

// SeriesTranslation fetches the localized series record for a TVDB language
// code. A missing translation (404) is (nil, nil).
func (c *Client) SeriesTranslation(
	ctx context.Context,
	seriesID int,
	lang string,
) (*Translation, error) {
	path := fmt.Sprintf("/series/%d/translations/%s", seriesID, lang)
	return c.fetchTranslation(ctx, path)
}

// EpisodeTranslation fetches the localized episode record for a TVDB
// language code. A missing translation (404) is (nil, nil).
func (c *Client) EpisodeTranslation(
	ctx context.Context,
	episodeID int,
	lang string,
) (*Translation, error) {
	path := fmt.Sprintf("/episodes/%d/translations/%s", episodeID, lang)
	return c.fetchTranslation(ctx, path)
}

func (c *Client) fetchTranslation(
	ctx context.Context,
	path string,
) (*Translation, error) {
	var decoded struct {
		Data *Translation `json:"data"`
	}
	if err := c.get(ctx, path, nil, &decoded); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if decoded.Data == nil || (decoded.Data.Name == "" && decoded.Data.Overview == "") {
		return nil, nil
	}
	return decoded.Data, nil
}

// EpisodeID finds the episode identifier for a season/episode number.
func (c *Client) EpisodeID(
	ctx context.Context,
	seriesID, season, episode int,
) (int, bool, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))
	params.Set("episodeNumber", strconv.Itoa(episode))
	params.Set("page", "0")

	var decoded struct {
		Data struct {
			Episodes []struct {
				ID           int `json:"id"`
				SeasonNumber int `json:"seasonNumber"`
				Number       int `json:"number"`
			} `json:"episodes"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/series/%d/episodes/default", seriesID)
	if err := c.get(ctx, path, params, &decoded); err != nil {
		return 0, false, err
	}

	for _, ep := range decoded.Data.Episodes {
		if ep.SeasonNumber == season && ep.Number == episode {
			return ep.ID, true, nil
		}
	}
	return 0, false, nil
}
