// Package conflict scans the trip set for drivers booked on
// near-simultaneous trips. The scan is advisory: it flags but never
// blocks, so operators notice double-bookings that slipped past the
// availability check, e.g. because a trip was edited after assignment.
package conflict

import (
	"sort"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
)

// DefaultThresholdMinutes is the start-time distance under which two
// trips of the same driver on the same day are considered in conflict.
const DefaultThresholdMinutes = 60

// Report groups conflicting trips by driver and carries the flat set of
// conflicted trip ids for quick lookups.
type Report struct {
	ByDriver map[string][]model.Trip `json:"by_driver"`
	TripIDs  map[string]bool         `json:"trip_ids"`
}

// Conflicted reports whether the trip id appears in any conflict pair.
func (r Report) Conflicted(tripID string) bool { return r.TripIDs[tripID] }

// Empty reports whether the scan found nothing.
func (r Report) Empty() bool { return len(r.TripIDs) == 0 }

// TripCount returns the number of distinct conflicted trips.
func (r Report) TripCount() int { return len(r.TripIDs) }

// Detector holds the scan threshold. The zero value uses the default.
type Detector struct {
	// ThresholdMinutes overrides DefaultThresholdMinutes when positive.
	ThresholdMinutes int
}

// Find runs the pairwise scan. Trips are grouped by exact date string;
// within a group every unordered pair sharing a non-empty driver id is
// compared on start-time distance. The scan is O(n²) per date, which is
// fine at daily fleet volumes; bucket by driver first if that ever
// changes.
func (d Detector) Find(trips []model.Trip) Report {
	threshold := d.ThresholdMinutes
	if threshold <= 0 {
		threshold = DefaultThresholdMinutes
	}

	byDate := make(map[string][]model.Trip)
	for _, t := range trips {
		if t.DriverID == "" {
			continue
		}
		byDate[t.Date] = append(byDate[t.Date], t)
	}

	rep := Report{ByDriver: make(map[string][]model.Trip), TripIDs: make(map[string]bool)}
	seen := make(map[string]map[string]bool) // driver -> trip ids already grouped
	for _, group := range byDate {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.DriverID != b.DriverID {
					continue
				}
				diff := startMinutes(a) - startMinutes(b)
				if diff < 0 {
					diff = -diff
				}
				if diff >= threshold {
					continue
				}
				rep.TripIDs[a.ID] = true
				rep.TripIDs[b.ID] = true
				if seen[a.DriverID] == nil {
					seen[a.DriverID] = make(map[string]bool)
				}
				for _, t := range []model.Trip{a, b} {
					if !seen[t.DriverID][t.ID] {
						seen[t.DriverID][t.ID] = true
						rep.ByDriver[t.DriverID] = append(rep.ByDriver[t.DriverID], t)
					}
				}
			}
		}
	}

	for driver := range rep.ByDriver {
		group := rep.ByDriver[driver]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Date != group[j].Date {
				return group[i].Date < group[j].Date
			}
			if sm, om := startMinutes(group[i]), startMinutes(group[j]); sm != om {
				return sm < om
			}
			return group[i].ID < group[j].ID
		})
	}
	return rep
}

// startMinutes returns the trip's start time as minutes from midnight,
// tolerating malformed clocks as 00:00.
func startMinutes(t model.Trip) int {
	off, _ := schedule.ParseClock(t.StartTime)
	return int(off.Minutes())
}
