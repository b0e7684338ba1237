// Package region provides the catalog of supported cities and districts
// and resolves free-text addresses or reverse-geocode results into a
// validated (city, district) pair.
package region

// Location is a validated (city, district) pair. A district is only
// meaningful together with its owning city, never on its own.
type Location struct {
	City     string
	District string
}

// Catalog is the static table of supported cities and their districts.
// It is built once at startup and safe for concurrent reads.
type Catalog struct {
	cities    []string // insertion order, used for menu rendering
	districts map[string][]string
	lookup    map[string]map[string]struct{}
}

// NewCatalog builds a catalog from city → district list entries.
// Cities keeps the given order; duplicate districts within a city are dropped.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		districts: make(map[string][]string, len(entries)),
		lookup:    make(map[string]map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		if _, ok := c.lookup[e.City]; ok {
			continue
		}
		set := make(map[string]struct{}, len(e.Districts))
		ordered := make([]string, 0, len(e.Districts))
		for _, d := range e.Districts {
			if _, dup := set[d]; dup {
				continue
			}
			set[d] = struct{}{}
			ordered = append(ordered, d)
		}
		c.cities = append(c.cities, e.City)
		c.districts[e.City] = ordered
		c.lookup[e.City] = set
	}
	return c
}

// CatalogEntry is one supported city with its districts.
type CatalogEntry struct {
	City      string
	Districts []string
}

// IsSupportedCity reports whether the city is in the catalog.
// Callers must pre-normalize the name (see NormalizeAddress).
func (c *Catalog) IsSupportedCity(city string) bool {
	_, ok := c.lookup[city]
	return ok
}

// IsSupportedDistrict reports whether the district is listed under the
// given city. Returns false when the city itself is unsupported.
func (c *Catalog) IsSupportedDistrict(city, district string) bool {
	set, ok := c.lookup[city]
	if !ok {
		return false
	}
	_, ok = set[district]
	return ok
}

// Cities returns the supported city names in catalog order.
func (c *Catalog) Cities() []string {
	out := make([]string, len(c.cities))
	copy(out, c.cities)
	return out
}

// Districts returns the districts of a city in catalog order,
// or nil when the city is unsupported.
func (c *Catalog) Districts(city string) []string {
	ds, ok := c.districts[city]
	if !ok {
		return nil
	}
	out := make([]string, len(ds))
	copy(out, ds)
	return out
}

// DefaultCatalog returns the production catalog of supported regions.
func DefaultCatalog() *Catalog {
	return NewCatalog([]CatalogEntry{
		{
			City: "台北市",
			Districts: []string{
				"中正區", "大同區", "中山區", "松山區", "大安區", "萬華區",
				"信義區", "士林區", "北投區", "內湖區", "南港區", "文山區",
			},
		},
		{
			City: "新北市",
			Districts: []string{
				"板橋區", "三重區", "中和區", "永和區", "新莊區", "新店區",
				"土城區", "蘆洲區", "汐止區", "樹林區", "淡水區", "鶯歌區",
			},
		},
		{
			City: "高雄市",
			Districts: []string{
				"楠梓區", "左營區", "鼓山區", "三民區", "鹽埕區", "前金區",
				"新興區", "苓雅區", "前鎮區", "旗津區", "小港區", "鳳山區",
			},
		},
	})
}
