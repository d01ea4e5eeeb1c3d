package event

import (
	"cmp"
	"strings"

	"github.com/cu-events/events-api/pkg/model"
	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
)

// Sort returns a sorted copy of events. The sort is stable so events comparing equal keep their
// relative order.
func Sort(events []model.Event, order model.SortOrder) []model.Event {
	sorted := slices.Clone(events)
	compare := comparator(order.Key)
	if order.Descending {
		slices.SortStableFunc(sorted, func(a, b model.Event) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

func comparator(key model.SortKey) func(a, b model.Event) int {
	switch key {
	case model.SortByName:
		return compareName
	case model.SortByInterested:
		return func(a, b model.Event) int { return cmp.Compare(a.InterestedCount(), b.InterestedCount()) }
	case model.SortByLocation:
		return func(a, b model.Event) int { return strings.Compare(a.Location, b.Location) }
	default:
		return func(a, b model.Event) int { return a.Date.Compare(b.Date) }
	}
}

func compareName(a, b model.Event) int {
	fold := cases.Fold()
	return strings.Compare(fold.String(a.Name), fold.String(b.Name))
}
