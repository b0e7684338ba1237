package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linchiawei/twstore-linebot-go/internal/hours"
	"github.com/linchiawei/twstore-linebot-go/internal/logger"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func floatPtr(f float64) *float64 { return &f }

func TestSaveAndListByDistrict(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	noodle := Business{
		ID:        "store-001",
		Name:      "老王牛肉麵",
		City:      "台北市",
		District:  "大安區",
		Category:  "麵食",
		Address:   "台北市大安區和平東路一段100號",
		Dishes:    "紅燒牛肉麵",
		Latitude:  floatPtr(25.026),
		Longitude: floatPtr(121.527),
		Hours: hours.Schedule{
			{Open: hours.Marker{Day: 1, Time: "1100"}, Close: &hours.Marker{Day: 1, Time: "2000"}},
		},
	}
	require.NoError(t, db.Save(ctx, &noodle))
	require.NoError(t, db.Save(ctx, &Business{
		ID: "store-002", Name: "板橋小吃", City: "新北市", District: "板橋區",
	}))

	got, err := db.ListByDistrict(ctx, "台北市", "大安區")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, noodle, got[0])

	got, err = db.ListByDistrict(ctx, "台北市", "信義區")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveReplacesExisting(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	b := Business{ID: "store-001", Name: "舊名", City: "台北市", District: "大安區"}
	require.NoError(t, db.Save(ctx, &b))

	b.Name = "新名"
	require.NoError(t, db.Save(ctx, &b))

	got, err := db.ListByDistrict(ctx, "台北市", "大安區")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "新名", got[0].Name)

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListSkipsMalformedHours(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, &Business{
		ID: "store-001", Name: "壞資料", City: "台北市", District: "大安區",
	}))
	_, err := db.conn.ExecContext(ctx,
		`UPDATE businesses SET hours_json = ? WHERE id = ?`, "{not json", "store-001")
	require.NoError(t, err)

	got, err := db.ListByDistrict(ctx, "台北市", "大安區")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Hours)
}

func TestSeed(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewWithWriter("error", os.Stderr)

	dir := t.TempDir()
	seedPath := filepath.Join(dir, "stores.json")
	seed := `[
		{"id": "store-001", "name": "老王牛肉麵", "city": "台北市", "district": "大安區", "category": "麵食"},
		{"id": "store-002", "name": "阿婆壽司", "city": "台北市", "district": "大安區", "category": "日式"}
	]`
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))

	require.NoError(t, db.Seed(ctx, seedPath, log))
	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A second seed run must not duplicate rows.
	require.NoError(t, db.Seed(ctx, seedPath, log))
	count, err = db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSeedMissingFile(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	log := logger.NewWithWriter("error", os.Stderr)

	require.NoError(t, db.Seed(context.Background(), "/nonexistent/stores.json", log))
}

func TestBusinessCoordinate(t *testing.T) {
	t.Parallel()
	b := Business{Latitude: floatPtr(25.0), Longitude: floatPtr(121.5)}
	coord, ok := b.Coordinate()
	require.True(t, ok)
	assert.Equal(t, 25.0, coord.Latitude)
	assert.Equal(t, 121.5, coord.Longitude)

	_, ok = (&Business{Latitude: floatPtr(25.0)}).Coordinate()
	assert.False(t, ok)
	_, ok = (&Business{}).Coordinate()
	assert.False(t, ok)
}

func TestBusinessHasCategory(t *testing.T) {
	t.Parallel()
	assert.True(t, (&Business{Category: "麵食"}).HasCategory("麵食"))
	assert.False(t, (&Business{Category: "麵食"}).HasCategory("日式"))
	// Uncategorized never matches, even an empty query.
	assert.False(t, (&Business{}).HasCategory(""))
}
