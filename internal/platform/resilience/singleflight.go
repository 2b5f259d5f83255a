package resilience

import "golang.org/x/sync/singleflight"

// SingleFlight deduplicates concurrent calls for the same key.
// The zero value is ready to use.
type SingleFlight struct {
	group singleflight.Group
}

// Do runs fn once per key among concurrent callers; shared reports whether
// the result was handed to more than one caller.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.group.Do(key, fn)
}
