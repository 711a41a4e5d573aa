package solar

import (
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
)

// gridResolution is the coordinate rounding applied before lookup, in degrees.
const gridResolution = 1e-3

// gridKey identifies one snapped location and minute.
type gridKey struct {
	lat, lon float64
	minute   int64
}

// CachedGeometry wraps a SolarGeometry with an in-memory LRU cache. Inputs
// are snapped to a 0.001° grid and truncated to the minute before both lookup
// and evaluation, so results do not depend on query order.
type CachedGeometry struct {
	inner domain.SolarGeometry
	cache *lru.Cache[gridKey, float64]
}

// NewCachedGeometry creates a cache decorator around a solar geometry source.
// maxEntries below one is treated as one.
func NewCachedGeometry(inner domain.SolarGeometry, maxEntries int) *CachedGeometry {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[gridKey, float64](max(maxEntries, 1))
	return &CachedGeometry{inner: inner, cache: cache}
}

func (c *CachedGeometry) CosSolarZenith(lat, lon float64, at time.Time) float64 {
	lat, lon = snap(lat), snap(lon)
	at = at.UTC().Truncate(time.Minute)

	key := gridKey{lat: lat, lon: lon, minute: at.Unix() / 60}
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := c.inner.CosSolarZenith(lat, lon, at)
	c.cache.Add(key, v)
	return v
}

// Len reports the number of cached entries.
func (c *CachedGeometry) Len() int {
	return c.cache.Len()
}

func snap(deg float64) float64 {
	return math.Round(deg/gridResolution) * gridResolution
}
