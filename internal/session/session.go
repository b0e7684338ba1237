// Package session tracks where each user is in the recommendation
// dialog. Sessions are short-lived and expire on their own so an
// abandoned conversation simply restarts.
package session

import (
	"context"
	"time"
)

// Dialog stages. A session always sits in exactly one stage.
const (
	StageSelectingCity     = "selecting_city"
	StageSelectingDistrict = "selecting_district"
	StageSelectingCategory = "selecting_category"
)

// Session is the per-user dialog state.
type Session struct {
	Stage     string    `json:"stage"`
	City      string    `json:"city,omitempty"`
	District  string    `json:"district,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists dialog sessions keyed by user ID.
//
// Get returns errors.ErrSessionNotFound when no live session exists;
// Set overwrites any previous session and refreshes the TTL.
type Store interface {
	Get(ctx context.Context, userID string) (*Session, error)
	Set(ctx context.Context, userID string, s *Session) error
	Delete(ctx context.Context, userID string) error
	Ready(ctx context.Context) error
	Close() error
}
