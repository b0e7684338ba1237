package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/linchiawei/twstore-linebot-go/internal/hours"
)

// ListByDistrict returns every business registered under the given
// (city, district) pair. An unknown district yields an empty slice,
// never an error.
func (db *DB) ListByDistrict(ctx context.Context, city, district string) ([]Business, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, city, district, category, address, dishes, latitude, longitude, hours_json
		FROM businesses
		WHERE city = ? AND district = ?
		ORDER BY id`,
		city, district)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var businesses []Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return businesses, nil
}

// Save inserts or replaces a business.
func (db *DB) Save(ctx context.Context, b *Business) error {
	var hoursJSON sql.NullString
	if b.Hours != nil {
		data, err := json.Marshal(b.Hours)
		if err != nil {
			return fmt.Errorf("encode hours for %s: %w", b.ID, err)
		}
		hoursJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO businesses
			(id, name, city, district, category, address, dishes, latitude, longitude, hours_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.City, b.District,
		nullString(b.Category), nullString(b.Address), nullString(b.Dishes),
		nullFloat(b.Latitude), nullFloat(b.Longitude),
		hoursJSON, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save business %s: %w", b.ID, err)
	}
	return nil
}

// Count returns the total number of businesses in the store.
func (db *DB) Count(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return count, nil
}

// scanBusiness reads one row into a Business. A hours_json value that
// fails to decode degrades to unknown hours instead of failing the
// whole query.
func scanBusiness(rows *sql.Rows) (Business, error) {
	var (
		b         Business
		category  sql.NullString
		address   sql.NullString
		dishes    sql.NullString
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
		hoursJSON sql.NullString
	)
	if err := rows.Scan(&b.ID, &b.Name, &b.City, &b.District,
		&category, &address, &dishes, &latitude, &longitude, &hoursJSON); err != nil {
		return Business{}, fmt.Errorf("scan business: %w", err)
	}

	b.Category = category.String
	b.Address = address.String
	b.Dishes = dishes.String
	if latitude.Valid {
		b.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		b.Longitude = &longitude.Float64
	}
	if hoursJSON.Valid && hoursJSON.String != "" {
		var schedule hours.Schedule
		if err := json.Unmarshal([]byte(hoursJSON.String), &schedule); err == nil {
			b.Hours = schedule
		}
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
