package pharmacy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ternarybob/pharmscan/internal/models"
)

// ResolvePostcode resolves a postcode to the coordinate of its first
// geocoding match.
func (c *Client) ResolvePostcode(ctx context.Context, postcode string) (models.Coordinate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.Coordinate{}, err
	}

	params := url.Values{}
	params.Set("postalcode", postcode)
	reqURL := fmt.Sprintf("%s?%s", c.geocoderURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().Str("postcode", postcode).Msg("Resolving postcode")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.Coordinate{}, &GeocodeError{
			StatusCode: resp.StatusCode,
			Postcode:   postcode,
			Message:    string(body),
		}
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.Coordinate{}, &GeocodeError{
			StatusCode: resp.StatusCode,
			Postcode:   postcode,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	if len(result.Results) == 0 {
		return models.Coordinate{}, &GeocodeError{
			StatusCode: resp.StatusCode,
			Postcode:   postcode,
			Message:    "no geocoding matches",
		}
	}

	location := result.Results[0].Geometry.Location

	if c.logger != nil {
		c.logger.Info().
			Str("postcode", postcode).
			Float64("latitude", location.Latitude).
			Float64("longitude", location.Longitude).
			Msg("Postcode resolved")
	}

	return location, nil
}
