package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linchiawei/twstore-linebot-go/internal/geo"
	"github.com/linchiawei/twstore-linebot-go/internal/store"
)

func business(id, category string) store.Business {
	return store.Business{ID: id, Name: id, City: "台北市", District: "大安區", Category: category}
}

func located(id string, lat, lng float64) store.Business {
	b := business(id, "")
	b.Latitude = &lat
	b.Longitude = &lng
	return b
}

func ids(businesses []store.Business) []string {
	out := make([]string, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, b.ID)
	}
	return out
}

func TestByCategoryPrefersMatching(t *testing.T) {
	t.Parallel()
	pool := []store.Business{
		business("noodle-1", "麵食"),
		business("sushi-1", "日式"),
		business("noodle-2", "麵食"),
		business("cafe-1", "咖啡"),
		business("cafe-2", "咖啡"),
		business("sushi-2", "日式"),
		business("cafe-3", "咖啡"),
	}

	// Two matching businesses and three slots: both matches must be
	// picked, the last slot filled from the rest of the pool.
	for seed := int64(0); seed < 20; seed++ {
		picked := NewSelector(seed).ByCategory(pool, "麵食", 3)
		require.Len(t, picked, 3)

		got := ids(picked)
		assert.Contains(t, got, "noodle-1")
		assert.Contains(t, got, "noodle-2")

		seen := make(map[string]bool)
		for _, id := range got {
			assert.False(t, seen[id], "duplicate pick %s", id)
			seen[id] = true
		}
	}
}

func TestByCategoryEnoughMatches(t *testing.T) {
	t.Parallel()
	pool := []store.Business{
		business("noodle-1", "麵食"),
		business("noodle-2", "麵食"),
		business("noodle-3", "麵食"),
		business("noodle-4", "麵食"),
		business("cafe-1", "咖啡"),
	}

	picked := NewSelector(1).ByCategory(pool, "麵食", 3)
	require.Len(t, picked, 3)
	for _, b := range picked {
		assert.Equal(t, "麵食", b.Category)
	}
}

func TestByCategorySmallPool(t *testing.T) {
	t.Parallel()
	pool := []store.Business{
		business("noodle-1", "麵食"),
		business("cafe-1", "咖啡"),
	}

	picked := NewSelector(1).ByCategory(pool, "麵食", 3)
	assert.Len(t, picked, 2)

	assert.Nil(t, NewSelector(1).ByCategory(nil, "麵食", 3))
	assert.Nil(t, NewSelector(1).ByCategory(pool, "麵食", 0))
}

func TestByCategoryUncategorizedNeverMatches(t *testing.T) {
	t.Parallel()
	pool := []store.Business{
		business("plain-1", ""),
		business("plain-2", ""),
		business("noodle-1", "麵食"),
	}

	picked := NewSelector(2).ByCategory(pool, "麵食", 1)
	require.Len(t, picked, 1)
	assert.Equal(t, "noodle-1", picked[0].ID)
}

func TestByCategoryDeterministicForSeed(t *testing.T) {
	t.Parallel()
	pool := []store.Business{
		business("a", "麵食"), business("b", "麵食"), business("c", "麵食"),
		business("d", "麵食"), business("e", "麵食"),
	}

	first := ids(NewSelector(42).ByCategory(pool, "麵食", 3))
	second := ids(NewSelector(42).ByCategory(pool, "麵食", 3))
	assert.Equal(t, first, second)
}

func TestNearestSortsByDistance(t *testing.T) {
	t.Parallel()
	// Origin near Taipei Main Station.
	origin := geo.Coordinate{Latitude: 25.0478, Longitude: 121.5170}
	pool := []store.Business{
		located("far", 25.15, 121.6),
		located("near", 25.0480, 121.5172),
		located("mid", 25.06, 121.53),
		business("no-coords", "麵食"),
	}

	picked := NewSelector(1).Nearest(pool, origin, 3)
	assert.Equal(t, []string{"near", "mid", "far"}, ids(picked))
}

func TestNearestExcludesMissingCoordinates(t *testing.T) {
	t.Parallel()
	origin := geo.Coordinate{Latitude: 25.0, Longitude: 121.5}
	pool := []store.Business{
		business("no-coords-1", ""),
		located("has-coords", 25.01, 121.51),
		business("no-coords-2", ""),
	}

	picked := NewSelector(1).Nearest(pool, origin, 3)
	require.Len(t, picked, 1)
	assert.Equal(t, "has-coords", picked[0].ID)
}

func TestNearestEmpty(t *testing.T) {
	t.Parallel()
	origin := geo.Coordinate{Latitude: 25.0, Longitude: 121.5}

	assert.Nil(t, NewSelector(1).Nearest(nil, origin, 3))
	assert.Nil(t, NewSelector(1).Nearest([]store.Business{business("x", "")}, origin, 3))
	assert.Nil(t, NewSelector(1).Nearest([]store.Business{located("x", 25, 121)}, origin, 0))
}

func TestNearestStableTies(t *testing.T) {
	t.Parallel()
	origin := geo.Coordinate{Latitude: 25.0, Longitude: 121.5}
	pool := []store.Business{
		located("first", 25.0, 121.5),
		located("second", 25.0, 121.5),
		located("third", 25.0, 121.5),
	}

	picked := NewSelector(1).Nearest(pool, origin, 2)
	assert.Equal(t, []string{"first", "second"}, ids(picked))
}
