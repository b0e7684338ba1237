package region

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/width"
)

// CityLevel is the address component level Google tags top-level
// Taiwanese administrative divisions (直轄市 / 縣市) with.
const CityLevel = "administrative_area_level_1"

// AddressComponent is one entry of a reverse-geocode result. A component
// may carry several type tags (e.g. both "political" and an
// administrative level).
type AddressComponent struct {
	LongName  string
	ShortName string
	Types     []string
}

// HasType reports whether the component carries the given type tag.
func (a AddressComponent) HasType(t string) bool {
	return slices.Contains(a.Types, t)
}

// variantReplacer collapses characters that denote the same city token
// into the canonical form used by the catalog. 臺 is the formal variant
// of 台 and shows up in official addresses.
var variantReplacer = strings.NewReplacer("臺", "台")

// NormalizeAddress canonicalizes an address string before matching:
// full-width characters are folded to their narrow forms and Traditional
// variants of the city token are collapsed.
func NormalizeAddress(text string) string {
	return variantReplacer.Replace(width.Narrow.String(text))
}

// Resolver extracts a validated Location from free-text addresses or
// reverse-geocode address components.
type Resolver struct {
	catalog       *Catalog
	pattern       *regexp.Regexp
	districtLevel string
}

// NewResolver builds a resolver over the given catalog. districtLevel is
// the address component level treated as the district in geocode results
// (config.DistrictLevel2 or config.DistrictLevel3).
func NewResolver(catalog *Catalog, districtLevel string) *Resolver {
	return &Resolver{
		catalog:       catalog,
		pattern:       buildCityPattern(catalog.Cities()),
		districtLevel: districtLevel,
	}
}

// buildCityPattern compiles an alternation of all city names, longest
// first so a city that is a prefix of another cannot win the match and
// truncate the district capture. The district is 1-4 characters followed
// by one of the administrative suffixes 區/鄉/鎮/市.
func buildCityPattern(cities []string) *regexp.Regexp {
	sorted := make([]string, len(cities))
	copy(sorted, cities)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len([]rune(b)) - len([]rune(a))
	})
	for i, city := range sorted {
		sorted[i] = regexp.QuoteMeta(city)
	}
	return regexp.MustCompile("(" + strings.Join(sorted, "|") + ")(.{1,4}[區鄉鎮市])")
}

// ResolveAddress extracts a (city, district) pair from a free-text
// address. It is a fast offline heuristic: any ambiguity or validation
// failure yields no match, and callers fall back to reverse geocoding.
func (r *Resolver) ResolveAddress(text string) (Location, bool) {
	if text == "" {
		return Location{}, false
	}

	match := r.pattern.FindStringSubmatch(NormalizeAddress(text))
	if match == nil {
		return Location{}, false
	}

	city, district := match[1], match[2]
	if !r.catalog.IsSupportedDistrict(city, district) {
		return Location{}, false
	}
	return Location{City: city, District: district}, true
}

// ResolveComponents extracts a (city, district) pair from reverse-geocode
// address components. The city comes from the first-level administrative
// component, the district from the configured level. Both must validate
// against the catalog together.
func (r *Resolver) ResolveComponents(components []AddressComponent) (Location, bool) {
	var city, district string
	for _, comp := range components {
		switch {
		case city == "" && comp.HasType(CityLevel):
			city = NormalizeAddress(comp.LongName)
		case district == "" && comp.HasType(r.districtLevel):
			district = NormalizeAddress(comp.LongName)
		}
	}

	if city == "" || district == "" {
		return Location{}, false
	}
	if !r.catalog.IsSupportedDistrict(city, district) {
		return Location{}, false
	}
	return Location{City: city, District: district}, true
}
