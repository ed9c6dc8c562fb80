package services

import (
	"errors"

	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"
)

// ErrNoDriverAvailable is returned when no qualifying driver exists for a
// pickup point. It is a valid "no driver found" outcome, not a failure: the
// appointment stays pending and may be matched later.
var ErrNoDriverAvailable = errors.New("no driver available")

// Hardcoded business values carried over from the dispatch rules. They are
// named here rather than inlined so the matcher can be tuned in one place,
// but they are not runtime configuration.
const (
	// RatingDeadBand is the tolerance below which two driver ratings are
	// treated as equal, so ranking does not thrash on rating noise.
	RatingDeadBand = 0.5

	// DefaultSearchRadiusMeters is the candidate search radius around the
	// pickup point.
	DefaultSearchRadiusMeters = 20_000.0

	// DefaultCandidateLimit caps how many candidates are ranked per dispatch.
	DefaultCandidateLimit = 5
)

// DriverMatcher is a domain service that selects the single best driver for
// a pickup point from a candidate pool.
//
// Ranking rules:
//   - primary key: descending rating, but ratings within RatingDeadBand of
//     each other are treated as equal
//   - secondary key: ascending great-circle distance to the pickup point
//
// The matcher only ranks; claiming the winner is the availability ledger's
// job, and the candidate pool is whatever the caller queried from it.
type DriverMatcher struct {
	deadBand float64
}

// NewDriverMatcher creates a matcher using RatingDeadBand.
func NewDriverMatcher() DriverMatcher {
	return DriverMatcher{deadBand: RatingDeadBand}
}

// NewDriverMatcherWithDeadBand creates a matcher with a custom dead-band,
// used by tests probing the tie-break behavior.
func NewDriverMatcherWithDeadBand(deadBand float64) DriverMatcher {
	return DriverMatcher{deadBand: deadBand}
}

// Select returns the best dispatchable candidate for the pickup point, or
// ErrNoDriverAvailable if the pool contains none.
//
// Candidates that are not dispatchable (offline, claimed, unverified,
// inactive, or without a location) are skipped rather than treated as
// errors: the pool may have gone stale between query and ranking.
func (m DriverMatcher) Select(pickup kernel.GeoPoint, candidates []*driver.Driver) (*driver.Driver, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	var (
		best         *driver.Driver
		bestDistance float64
	)

	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
		if !candidate.IsDispatchable() {
			continue
		}

		distance, err := candidate.Location().DistanceMetersTo(pickup)
		if err != nil {
			return nil, err
		}

		if best == nil || m.outranks(candidate, distance, best, bestDistance) {
			best = candidate
			bestDistance = distance
		}
	}

	if best == nil {
		return nil, ErrNoDriverAvailable
	}

	return best, nil
}

// outranks reports whether a beats b under the rating-then-distance rules.
func (m DriverMatcher) outranks(a *driver.Driver, aDistance float64, b *driver.Driver, bDistance float64) bool {
	diff := a.Rating() - b.Rating()
	if diff > m.deadBand {
		return true
	}
	if diff < -m.deadBand {
		return false
	}
	return aDistance < bDistance
}
