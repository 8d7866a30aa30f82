package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const (
	defaultBaseURL = "https://api.aladhan.com/v1"

	// customMethodID is the Al Adhan "CUSTOM" pseudo-method, excluded from
	// the selectable methods list.
	customMethodID = 99

	retryDelay = 1 * time.Second
)

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string

	// methods memoizes the /methods response for the client's lifetime.
	methods []MethodEntry
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchCalendarByCity fetches the full prayer calendar for one Gregorian
// month in the given city and country.
func (c *Client) FetchCalendarByCity(year, month int, city, country string, method, school int) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendarByCity/%d/%d", c.BaseURL, year, month)

	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	if school >= 0 {
		params.Set("school", fmt.Sprintf("%d", school))
	}

	body, err := c.get(fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var resp CalendarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("API returned empty calendar for %d-%02d", year, month)
	}

	return &resp, nil
}

// FetchMethods returns the selectable calculation methods, sorted by id,
// with the CUSTOM pseudo-method excluded. The result is memoized on the
// client for its lifetime.
func (c *Client) FetchMethods() ([]MethodEntry, error) {
	if c.methods != nil {
		return c.methods, nil
	}

	body, err := c.get(c.BaseURL + "/methods")
	if err != nil {
		return nil, err
	}

	var resp MethodsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode methods response: %w", err)
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}

	entries := make([]MethodEntry, 0, len(resp.Data))
	for _, m := range resp.Data {
		if m.ID == customMethodID {
			continue
		}
		entries = append(entries, MethodEntry{ID: m.ID, Name: m.Name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	c.methods = entries
	return entries, nil
}

// get performs an HTTP GET with one retry on transport errors.
// HTTP status errors are never retried -- a 4xx/5xx will not get better.
func (c *Client) get(reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		resp, err := c.httpClient.Get(reqURL)
		if err != nil {
			lastErr = fmt.Errorf("API request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read API response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, lastErr
}
