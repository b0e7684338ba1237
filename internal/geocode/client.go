// Package geocode reverse-geocodes coordinates through the Google
// Geocoding API so a shared location can be mapped to a city and
// district.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/linchiawei/twstore-linebot-go/internal/errors"
	"github.com/linchiawei/twstore-linebot-go/internal/geo"
	"github.com/linchiawei/twstore-linebot-go/internal/region"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client calls the Google Geocoding API. Concurrent lookups for the
// same rounded coordinate are collapsed into one upstream request.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	group      singleflight.Group
}

// NewClient creates a geocoding client with the given request timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// geocodeResponse is the subset of the Geocoding API response we read.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ReverseGeocode returns the address components of the first result
// for the coordinate, in Traditional Chinese. No result at all is an
// empty slice, not an error.
func (c *Client) ReverseGeocode(ctx context.Context, coord geo.Coordinate) ([]region.AddressComponent, error) {
	if c.apiKey == "" {
		return nil, apperrors.ErrMissingAPIKey
	}

	// Collapse near-identical lookups; four decimals is roughly 11 m.
	key := fmt.Sprintf("%.4f,%.4f", coord.Latitude, coord.Longitude)
	result, err, _ := c.group.Do(key, func() (any, error) {
		return c.lookup(ctx, coord)
	})
	if err != nil {
		return nil, err
	}
	return result.([]region.AddressComponent), nil
}

func (c *Client) lookup(ctx context.Context, coord geo.Coordinate) ([]region.AddressComponent, error) {
	query := url.Values{}
	query.Set("latlng", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
	query.Set("language", "zh-TW")
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewGeocoderError("", 0, fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewGeocoderError("", 0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewGeocoderError("", resp.StatusCode,
			fmt.Errorf("unexpected http status %d", resp.StatusCode))
	}

	var geocodeResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geocodeResp); err != nil {
		return nil, apperrors.NewGeocoderError("", resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	switch geocodeResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []region.AddressComponent{}, nil
	default:
		return nil, apperrors.NewGeocoderError(geocodeResp.Status, resp.StatusCode,
			fmt.Errorf("api error: %s", geocodeResp.ErrorMessage))
	}

	if len(geocodeResp.Results) == 0 {
		return []region.AddressComponent{}, nil
	}

	components := make([]region.AddressComponent, 0, len(geocodeResp.Results[0].AddressComponents))
	for _, comp := range geocodeResp.Results[0].AddressComponents {
		components = append(components, region.AddressComponent{
			LongName:  comp.LongName,
			ShortName: comp.ShortName,
			Types:     comp.Types,
		})
	}
	return components, nil
}
