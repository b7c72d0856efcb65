package services

import (
	"slices"

	"village-route-service/internal/domain"
)

// SelectStops picks the optimization instance from the candidate stops.
//
// Without a cap, or with a cap at or above the candidate count, all stops are
// kept in input order. Otherwise stops are ranked by descending priority (ties
// by ascending id) and the first maxStops are kept in that ranked order.
// A cap of zero or less selects nothing.
func SelectStops(stops []domain.Stop, maxStops *int) []domain.Stop {
	if maxStops == nil || *maxStops >= len(stops) {
		return slices.Clone(stops)
	}
	if *maxStops <= 0 {
		return []domain.Stop{}
	}

	ranked := slices.Clone(stops)
	slices.SortStableFunc(ranked, func(a, b domain.Stop) int {
		if a.Priority > b.Priority {
			return -1
		}
		if a.Priority < b.Priority {
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	return ranked[:*maxStops]
}
