package seed

import (
	"slices"

	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/parser"
)

// MergeResult is the outcome of Merge.
type MergeResult struct {
	// Seeds is the merged seed list, in history order followed by new routes.
	Seeds []Seed
	// Stale lists changed routes missing from the newest document; their
	// history seeds were kept.
	Stale []string
	// Unresolved lists changed routes found in neither seed set.
	Unresolved []string
	// Updated lists changed routes whose seeds came from the newest
	// document, replaced or added, in merged order.
	Updated []string
	// Err is a *o2terrors.MergeError describing Unresolved, or nil. It is
	// informational: the merged seeds are still usable.
	Err error
}

// Merge reconciles a previous seed set with a freshly extracted one.
//
// History seeds whose route is not in changed are kept as is. For a changed
// route, every newest seed of that route replaces the history seeds of that
// route, at the position of the first one; when the newest set has no seed
// for the route, the history seeds are kept and the route is reported as
// stale. Changed routes absent from history are appended from the newest set
// in changed order (new routes). Changed routes found nowhere are collected
// into one MergeError and excluded.
func Merge(history, newest []Seed, changed []string, logger parser.Logger) MergeResult {
	logger = parser.OrNop(logger)

	newestByRoute := make(map[string][]Seed)
	for _, s := range newest {
		newestByRoute[s.OriginalPath] = append(newestByRoute[s.OriginalPath], s)
	}

	changedSet := make(map[string]bool, len(changed))
	for _, route := range changed {
		changedSet[route] = true
	}

	var res MergeResult
	consumed := make(map[string]bool)
	replaced := make(map[string]bool)
	for _, h := range history {
		route := h.OriginalPath
		if !changedSet[route] {
			res.Seeds = append(res.Seeds, h)
			continue
		}
		consumed[route] = true
		fresh, ok := newestByRoute[route]
		if !ok {
			if !slices.Contains(res.Stale, route) {
				logger.Warn("changed route missing from newest document, keeping previous declaration", "route", route)
				res.Stale = append(res.Stale, route)
			}
			res.Seeds = append(res.Seeds, h)
			continue
		}
		if !replaced[route] {
			replaced[route] = true
			res.Seeds = append(res.Seeds, fresh...)
			res.Updated = append(res.Updated, route)
			logger.Debug("updated route", "route", route, "seeds", len(fresh))
		}
	}

	for _, route := range changed {
		if consumed[route] {
			continue
		}
		consumed[route] = true
		fresh, ok := newestByRoute[route]
		if !ok {
			res.Unresolved = append(res.Unresolved, route)
			continue
		}
		res.Seeds = append(res.Seeds, fresh...)
		res.Updated = append(res.Updated, route)
		logger.Debug("added route", "route", route, "seeds", len(fresh))
	}
	if len(res.Unresolved) > 0 {
		res.Err = &o2terrors.MergeError{Paths: res.Unresolved}
		logger.Error("changed routes not found", "error", res.Err)
	}
	return res
}
