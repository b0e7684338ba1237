package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := NewValidationError("district", "not in catalog")
	assert.Equal(t, "validation failed on district: not in catalog", err.Error())
}

func TestGeocoderErrorFormats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *GeocoderError
		want string
	}{
		{
			name: "api status",
			err:  NewGeocoderError("ZERO_RESULTS", 200, stderrors.New("no results")),
			want: "geocoder error (status=ZERO_RESULTS): no results",
		},
		{
			name: "http status only",
			err:  NewGeocoderError("", 503, stderrors.New("unavailable")),
			want: "geocoder error (http=503): unavailable",
		},
		{
			name: "bare",
			err:  NewGeocoderError("", 0, ErrMissingAPIKey),
			want: "geocoder error: api key not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestGeocoderErrorUnwrap(t *testing.T) {
	t.Parallel()
	err := NewGeocoderError("", 0, ErrMissingAPIKey)
	assert.True(t, stderrors.Is(err, ErrMissingAPIKey))
}
