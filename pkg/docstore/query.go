package docstore

import (
	"cmp"
	"time"
)

// Filter matches documents whose field equals value.
type Filter struct {
	Field string
	Value any
}

func Where(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Order sorts query results by field.
type Order struct {
	Field      string
	Descending bool
}

func OrderBy(field string, descending bool) Order {
	return Order{Field: field, Descending: descending}
}

func (f Filter) matches(r Record) bool {
	v, ok := r[f.Field]
	if !ok {
		return false
	}
	switch want := f.Value.(type) {
	case time.Time:
		got, ok := v.(time.Time)
		return ok && got.Equal(want)
	case []string:
		return false
	}
	return v == f.Value
}

// compareField orders two values of the same field. Missing values and values of differing types
// sort before everything else.
func compareField(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolToInt(x), boolToInt(y))
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
