package layout

import (
	"sort"

	"weekcal/internal/model"
)

type slot struct {
	column       int
	totalColumns int
}

// PositionEvents lays out the timed events that start on day.
//
// Events are split into groups connected by overlap (transitively), each
// group is packed first-fit into columns, and every event gets percentage
// geometry for a 24-hour column. Output order follows the input order.
// Callers must guarantee Start < End for timed events.
func PositionEvents(events []model.Event, day model.Day) []model.PositionedEvent {
	dayEvents := EventsForDay(events, day)
	if len(dayEvents) == 0 {
		return []model.PositionedEvent{}
	}

	slots := assignColumns(dayEvents)
	out := make([]model.PositionedEvent, 0, len(dayEvents))
	for i, ev := range dayEvents {
		s := slots[i]
		left, width := columnGeometry(s.column, s.totalColumns)
		out = append(out, model.PositionedEvent{
			Event:        ev,
			Top:          model.MinutesFromMidnight(ev.Start) / MinutesPerDay * 100,
			Height:       ev.End.Sub(ev.Start).Minutes() / MinutesPerDay * 100,
			Left:         left,
			Width:        width,
			Column:       s.column,
			TotalColumns: s.totalColumns,
		})
	}
	return out
}

// assignColumns returns one slot per event, indexed like events.
func assignColumns(events []model.Event) []slot {
	slots := make([]slot, len(events))
	for _, group := range overlapGroups(events) {
		var columns [][]int
		for _, idx := range group {
			placed := false
			for c, occupants := range columns {
				if overlapsAny(events, occupants, idx) {
					continue
				}
				columns[c] = append(occupants, idx)
				slots[idx].column = c
				placed = true
				break
			}
			if !placed {
				columns = append(columns, []int{idx})
				slots[idx].column = len(columns) - 1
			}
		}
		for _, idx := range group {
			slots[idx].totalColumns = len(columns)
		}
	}
	return slots
}

// overlapGroups partitions events (by index) into transitive overlap
// groups. Each group comes back sorted by start, longest first on ties.
func overlapGroups(events []model.Event) [][]int {
	order := sortedIndexes(events)
	grouped := make([]bool, len(events))
	var groups [][]int

	for _, seed := range order {
		if grouped[seed] {
			continue
		}
		group := []int{seed}
		grouped[seed] = true

		// Rescan until the group stops growing.
		for grew := true; grew; {
			grew = false
			for _, idx := range order {
				if grouped[idx] || !overlapsAny(events, group, idx) {
					continue
				}
				group = append(group, idx)
				grouped[idx] = true
				grew = true
			}
		}
		groups = append(groups, sortGroup(events, group))
	}
	return groups
}

func overlapsAny(events []model.Event, members []int, idx int) bool {
	for _, m := range members {
		if Overlaps(events[m], events[idx]) {
			return true
		}
	}
	return false
}

func sortedIndexes(events []model.Event) []int {
	all := make([]int, len(events))
	for i := range all {
		all[i] = i
	}
	return sortGroup(events, all)
}

func sortGroup(events []model.Event, group []int) []int {
	out := append([]int(nil), group...)
	sort.SliceStable(out, func(i, j int) bool {
		return startsBefore(events[out[i]], events[out[j]])
	})
	return out
}

// columnGeometry converts a column slot into left/width percentages.
func columnGeometry(column, totalColumns int) (left, width float64) {
	if totalColumns <= 1 {
		return 0, 100 - RightGap
	}
	n := float64(totalColumns)
	eventWidth := (100 - RightGap + CascadeOverlap*(n-1)) / n
	left = float64(column) * (eventWidth - CascadeOverlap)
	if column == totalColumns-1 {
		return left, 100 - RightGap - left
	}
	return left, eventWidth
}
