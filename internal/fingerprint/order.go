package fingerprint

import (
	"slices"
	"strings"
)

// Ordering names the metadata fields used to sort members within a class and
// to sort classes against each other.
type Ordering struct {
	Members []string
	Classes []string
}

// SameOrdering uses one key order for both passes.
func SameOrdering(keys []string) Ordering {
	return Ordering{Members: keys, Classes: keys}
}

// Keys returns every distinct field named by o, members first.
func (o Ordering) Keys() []string {
	keys := make([]string, 0, len(o.Members)+len(o.Classes))
	for _, k := range o.Members {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	for _, k := range o.Classes {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Order returns a new class slice sorted for display. Members of each class
// are stable-sorted by the o.Members composite key. Classes are then
// stable-sorted by the o.Classes composite key of their first member, so ties
// keep first-seen order. The input is not modified.
func Order[H any](classes []Class[H], o Ordering) []Class[H] {
	out := make([]Class[H], len(classes))
	for i, c := range classes {
		members := slices.Clone(c.Members)
		slices.SortStableFunc(members, func(a, b Record[H]) int {
			return compareKeys(a, b, o.Members)
		})
		out[i] = Class[H]{Members: members}
	}

	slices.SortStableFunc(out, func(a, b Class[H]) int {
		return compareKeys(a.Members[0], b.Members[0], o.Classes)
	})
	return out
}

// compareKeys compares two records field by field. This matches comparing
// the concatenated fields with a separator that sorts below every character.
func compareKeys[H any](a, b Record[H], keys []string) int {
	for _, k := range keys {
		if c := strings.Compare(a.Field(k), b.Field(k)); c != 0 {
			return c
		}
	}
	return 0
}

// CompositeKey joins the named fields of r, for display or debugging.
func CompositeKey[H any](r Record[H], keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = r.Field(k)
	}
	return strings.Join(parts, " / ")
}
