package store

import (
	"github.com/linchiawei/twstore-linebot-go/internal/geo"
	"github.com/linchiawei/twstore-linebot-go/internal/hours"
)

// Business is a single recommendable business. It is a read-only
// snapshot fetched per request; the core never mutates or caches it.
type Business struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	City      string         `json:"city"`
	District  string         `json:"district"`
	Category  string         `json:"category,omitempty"` // empty = uncategorized
	Address   string         `json:"address,omitempty"`
	Dishes    string         `json:"dishes,omitempty"` // signature items
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Hours     hours.Schedule `json:"hours,omitempty"` // nil = unknown hours
}

// Coordinate returns the business position and whether one is recorded.
func (b *Business) Coordinate() (geo.Coordinate, bool) {
	if b.Latitude == nil || b.Longitude == nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: *b.Latitude, Longitude: *b.Longitude}, true
}

// HasCategory reports whether the business carries the given category
// label. An uncategorized business matches no category.
func (b *Business) HasCategory(category string) bool {
	return b.Category != "" && b.Category == category
}
