// Package cache provides the raw-bytes response cache used by the upstream
// fetch clients. Keys hold marshaled fetch results keyed by source and
// parameters, e.g. "markets:SLX:1y".
package cache

import "time"

// BytesCache stores raw bytes with a TTL. A miss is (nil, false, nil);
// errors are reserved for backend failures.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
