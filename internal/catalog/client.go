// Package catalog consumes the external read-only character catalog. The
// engine only ever needs id, name and image; everything else the upstream
// returns is ignored.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// Character is the subset of the upstream schema the economy cares about.
type Character struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// PageInfo mirrors the upstream pagination envelope.
type PageInfo struct {
	Next  *string `json:"next"`
	Pages int     `json:"pages"`
}

type page struct {
	Results []Character `json:"results"`
	Info    PageInfo    `json:"info"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Characters fetches one page of the catalog.
func (c *Client) Characters(ctx context.Context, pageNum int) ([]Character, PageInfo, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	url := fmt.Sprintf("%s/character?page=%d", c.baseURL, pageNum)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, PageInfo{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, PageInfo{}, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, PageInfo{}, fmt.Errorf("catalog status %d: %s", resp.StatusCode, string(body))
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, PageInfo{}, fmt.Errorf("catalog decode: %w", err)
	}
	return p.Results, p.Info, nil
}

// RandomCharacter picks a uniformly random character across all pages.
// It costs at most two requests: one to learn the page count, one for the
// chosen page (the first request is reused when page 1 wins).
func (c *Client) RandomCharacter(ctx context.Context, rng *rand.Rand) (Character, error) {
	first, info, err := c.Characters(ctx, 1)
	if err != nil {
		return Character{}, err
	}
	if len(first) == 0 {
		return Character{}, fmt.Errorf("catalog is empty")
	}

	pages := info.Pages
	if pages < 1 {
		pages = 1
	}
	pick := 1
	if pages > 1 {
		pick = 1 + rng.Intn(pages)
	}

	results := first
	if pick != 1 {
		results, _, err = c.Characters(ctx, pick)
		if err != nil {
			return Character{}, err
		}
		if len(results) == 0 {
			results = first
		}
	}
	return results[rng.Intn(len(results))], nil
}
