package pharmacy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ternarybob/pharmscan/internal/models"
)

// SearchStores enumerates every store within radiusMiles of center by
// paging the store-search endpoint until the server-declared total is
// reached. The result is fully materialized; any failed or malformed
// page discards everything collected so far.
//
// The termination bound is recomputed from each page's total, so a
// server whose total drifts mid-enumeration is trusted at its latest
// word rather than a first-page snapshot.
func (c *Client) SearchStores(ctx context.Context, center models.Coordinate, radiusMiles int) ([]models.Store, error) {
	var stores []models.Store
	offset := 0

	for {
		page, err := c.fetchStorePage(ctx, center, radiusMiles, offset)
		if err != nil {
			return nil, err
		}

		for _, result := range *page.Results {
			store := models.Store{
				StoreID:     result.Location.ID,
				DisplayName: result.Location.DisplayName,
			}
			if result.Location.Address != nil {
				store.Postcode = result.Location.Address.Postcode
			}
			if result.Location.ContactDetails != nil {
				store.PhoneNumber = result.Location.ContactDetails.Phone
			}
			stores = append(stores, store)
		}

		if c.logger != nil {
			end := offset + page.Size
			if end > page.Total {
				end = page.Total
			}
			c.logger.Info().
				Int("from", offset+1).
				Int("to", end).
				Int("total", page.Total).
				Msg("Fetched store page")
		}

		if offset+page.Size >= page.Total {
			break
		}
		if page.Size <= 0 {
			// A zero-size page below the total would loop forever.
			return nil, &StoreSearchError{
				StatusCode: http.StatusOK,
				Offset:     offset,
				Message:    fmt.Sprintf("empty page with %d stores still expected", page.Total-offset),
			}
		}
		offset += page.Size
	}

	if c.logger != nil {
		c.logger.Info().Int("stores", len(stores)).Msg("Store enumeration complete")
	}

	return stores, nil
}

// fetchStorePage requests a single page of store results at the given offset.
func (c *Client) fetchStorePage(ctx context.Context, center models.Coordinate, radiusMiles, offset int) (*storeSearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("type", "geo")
	params.Set("radius", strconv.Itoa(radiusMiles))
	params.Set("from", strconv.Itoa(offset))
	params.Set("latitude", strconv.FormatFloat(center.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(center.Longitude, 'f', -1, 64))
	reqURL := fmt.Sprintf("%s?%s", c.storeSearchURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().Int("offset", offset).Int("radius", radiusMiles).Msg("Fetching store page")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute store search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StoreSearchError{
			StatusCode: resp.StatusCode,
			Offset:     offset,
			Message:    string(body),
		}
	}

	var page storeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &StoreSearchError{
			StatusCode: resp.StatusCode,
			Offset:     offset,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	if page.Results == nil {
		return nil, &StoreSearchError{
			StatusCode: resp.StatusCode,
			Offset:     offset,
			Message:    "response missing results field",
		}
	}

	return &page, nil
}
