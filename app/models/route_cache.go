package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RouteCache persisted distance lookup result
type RouteCache struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Fingerprint string             `bson:"fingerprint" json:"fingerprint"`     // sha256 of the cache key
	OriginKey   string             `bson:"origin_key" json:"origin_key"`       // Canonical origin
	Destination string             `bson:"destination" json:"destination"`     // Destination address
	Route       Route              `bson:"route" json:"route"`                 // Lookup result
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`       // Creation time
	LastAccess  time.Time          `bson:"last_accessed" json:"last_accessed"` // Last read
	AccessCount int                `bson:"access_count" json:"access_count"`   // Reads
}

// NewRouteCache creates an entry for the given key parts.
func NewRouteCache(fingerprint, originKey, destination string, route Route) *RouteCache {
	now := time.Now()
	return &RouteCache{
		Fingerprint: fingerprint,
		OriginKey:   originKey,
		Destination: destination,
		Route:       route,
		CreatedAt:   now,
		LastAccess:  now,
		AccessCount: 1,
	}
}

// IsExpired reports whether the entry is older than ttl. A zero ttl never expires.
func (rc *RouteCache) IsExpired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(rc.CreatedAt) > ttl
}
