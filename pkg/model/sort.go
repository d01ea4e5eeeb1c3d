package model

import (
	"strings"

	"github.com/cu-events/events-api/internal/errdef"
)

type SortKey string

const (
	SortByDate       SortKey = "date"
	SortByName       SortKey = "name"
	SortByInterested SortKey = "interested"
	SortByLocation   SortKey = "location"
)

var sortKeys = []SortKey{SortByDate, SortByName, SortByInterested, SortByLocation}

const (
	ascending  = "Ascending"
	descending = "Descending"
)

// SortOrder is a key and a direction to order events by.
type SortOrder struct {
	Key        SortKey
	Descending bool
}

var (
	DateAscending        = SortOrder{Key: SortByDate}
	DateDescending       = SortOrder{Key: SortByDate, Descending: true}
	NameAscending        = SortOrder{Key: SortByName}
	NameDescending       = SortOrder{Key: SortByName, Descending: true}
	InterestedAscending  = SortOrder{Key: SortByInterested}
	InterestedDescending = SortOrder{Key: SortByInterested, Descending: true}
	LocationAscending    = SortOrder{Key: SortByLocation}
	LocationDescending   = SortOrder{Key: SortByLocation, Descending: true}
)

// DefaultSortOrder is the order events are listed in unless another one is selected.
var DefaultSortOrder = DateAscending

// ParseSortOrder parses names like "dateAscending" or "nameDescending". An empty string yields
// DefaultSortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return DefaultSortOrder, nil
	}

	var order SortOrder
	key, ok := strings.CutSuffix(s, ascending)
	if !ok {
		key, ok = strings.CutSuffix(s, descending)
		order.Descending = true
	}
	if !ok {
		return SortOrder{}, errdef.NewBadRequest("unknown sort order %q", s)
	}

	for _, k := range sortKeys {
		if string(k) == key {
			order.Key = k
			return order, nil
		}
	}
	return SortOrder{}, errdef.NewBadRequest("unknown sort key %q", key)
}

func (o SortOrder) String() string {
	if o.Descending {
		return string(o.Key) + descending
	}
	return string(o.Key) + ascending
}

// Select returns the order resulting from choosing key while o is active. Choosing the active key
// again flips the direction, choosing another key starts out ascending.
func (o SortOrder) Select(key SortKey) SortOrder {
	if o.Key == key {
		return SortOrder{Key: key, Descending: !o.Descending}
	}
	return SortOrder{Key: key}
}
