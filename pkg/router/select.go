package router

import "errors"

// ErrNoCandidates is returned when the registry holds no backends. It is
// fatal to the calling request and signals misconfiguration; callers should
// guard against an empty registry at startup.
var ErrNoCandidates = errors.New("no candidate backends registered")

// Select returns the arg-max backend id from scores. order is the registry's
// insertion order; ties go to the earlier-registered backend, independent of
// map iteration. Given a non-empty order, Select always returns a value.
func Select(scores map[string]float64, order []string) (string, error) {
	if len(order) == 0 {
		return "", ErrNoCandidates
	}

	best := order[0]
	bestScore := scores[best]
	for _, id := range order[1:] {
		if s := scores[id]; s > bestScore {
			best = id
			bestScore = s
		}
	}
	return best, nil
}
