package query

import "strings"

// Sort is a column ordering. The query string form is "field" for ascending
// and "-field" for descending.
type Sort struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return Sort{Field: strings.TrimPrefix(s, "-"), Desc: true}
	}
	return Sort{Field: s}
}

func (s Sort) String() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// ToggleSort is a header click: the active column flips direction, any other
// column becomes the active one in ascending order.
func ToggleSort(current Sort, field string) Sort {
	if current.Field == field {
		return Sort{Field: field, Desc: !current.Desc}
	}
	return Sort{Field: field}
}

// Sorter picks the comparator for s.Field out of fields. Unknown or empty
// fields yield nil, which keeps the backend order.
func Sorter[T any](s Sort, fields map[string]Comparator[T]) Comparator[T] {
	c, ok := fields[s.Field]
	if !ok || c == nil {
		return nil
	}
	if s.Desc {
		return c.Reverse()
	}
	return c
}
