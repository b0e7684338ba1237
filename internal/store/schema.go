package store

import "database/sql"

// schema defines the businesses table. Opening hours are stored as the
// JSON encoding of hours.Schedule; NULL means unknown hours.
const schema = `
CREATE TABLE IF NOT EXISTS businesses (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	city        TEXT NOT NULL,
	district    TEXT NOT NULL,
	category    TEXT,
	address     TEXT,
	dishes      TEXT,
	latitude    REAL,
	longitude   REAL,
	hours_json  TEXT,
	updated_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_businesses_city_district
	ON businesses (city, district);

CREATE INDEX IF NOT EXISTS idx_businesses_category
	ON businesses (city, district, category);
`

// initSchema creates tables and indexes if they do not exist.
func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	return err
}
