package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/linchiawei/twstore-linebot-go/internal/errors"
	"github.com/linchiawei/twstore-linebot-go/internal/geo"
)

func newTestClient(serverURL string) *Client {
	c := NewClient("test-key", 2*time.Second)
	c.baseURL = serverURL
	return c
}

func TestReverseGeocode(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "zh-TW", r.URL.Query().Get("language"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NotEmpty(t, r.URL.Query().Get("latlng"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"address_components": [
					{"long_name": "台灣", "short_name": "TW", "types": ["country", "political"]},
					{"long_name": "台北市", "short_name": "台北市", "types": ["administrative_area_level_1", "political"]},
					{"long_name": "大安區", "short_name": "大安區", "types": ["administrative_area_level_3", "political"]}
				]
			}]
		}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)
	components, err := client.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 25.03, Longitude: 121.53})
	require.NoError(t, err)
	require.Len(t, components, 3)
	assert.Equal(t, "台北市", components[1].LongName)
	assert.True(t, components[1].HasType("administrative_area_level_1"))
	assert.Equal(t, "大安區", components[2].LongName)
}

func TestReverseGeocodeZeroResults(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)
	components, err := client.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 0, Longitude: 0})
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestReverseGeocodeAPIError(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)
	_, err := client.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 25, Longitude: 121})
	require.Error(t, err)

	var geocodeErr *apperrors.GeocoderError
	require.ErrorAs(t, err, &geocodeErr)
	assert.Equal(t, "REQUEST_DENIED", geocodeErr.Status)
}

func TestReverseGeocodeHTTPError(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)
	_, err := client.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 25, Longitude: 121})
	require.Error(t, err)

	var geocodeErr *apperrors.GeocoderError
	require.ErrorAs(t, err, &geocodeErr)
	assert.Equal(t, http.StatusServiceUnavailable, geocodeErr.StatusCode)
}

func TestReverseGeocodeMissingKey(t *testing.T) {
	t.Parallel()
	client := NewClient("", time.Second)
	_, err := client.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 25, Longitude: 121})
	assert.ErrorIs(t, err, apperrors.ErrMissingAPIKey)
}

func TestReverseGeocodeCollapsesConcurrentLookups(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"status": "OK", "results": [{"address_components": []}]}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)
	coord := geo.Coordinate{Latitude: 25.03, Longitude: 121.53}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := client.ReverseGeocode(context.Background(), coord)
			errs <- err
		}()
	}

	// Let both goroutines reach the singleflight group before the
	// upstream responds.
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, int32(1), calls.Load())
}
