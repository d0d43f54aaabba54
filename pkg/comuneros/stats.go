package comuneros

import (
	"context"
	"time"
)

// Stats are the dashboard counters, derived client-side from one
// include_deleted listing.
type Stats struct {
	Total        int
	Active       int
	Deleted      int
	CreatedToday int
}

// Stats fetches the full registry and aggregates the dashboard counters.
// "Today" is evaluated in the local timezone of the admin, not the server.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.List(ctx, true)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(records, s.now()), nil
}

// Summarize aggregates counters over an already-fetched listing.
func Summarize(records []Comunero, now time.Time) Stats {
	year, month, day := now.Date()
	stats := Stats{Total: len(records)}
	for _, record := range records {
		if record.IsDeleted {
			stats.Deleted++
		} else {
			stats.Active++
		}
		if created, ok := record.CreatedTime(); ok {
			cy, cm, cd := created.Date()
			if cy == year && cm == month && cd == day {
				stats.CreatedToday++
			}
		}
	}
	return stats
}
