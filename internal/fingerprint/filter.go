package fingerprint

// KeySet is a set of exclusion keys.
type KeySet map[string]struct{}

// NewKeySet builds a set from keys, ignoring empty strings.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		if k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether k is in the set.
func (s KeySet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s KeySet) Union(other KeySet) KeySet {
	out := make(KeySet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Filter drops every record whose ExcludeKey is in excluded and reports how
// many were dropped. Survivors keep their relative order.
func Filter[H any](records []Record[H], excluded KeySet) ([]Record[H], int) {
	if len(excluded) == 0 {
		return records, 0
	}

	kept := make([]Record[H], 0, len(records))
	for _, r := range records {
		if r.ExcludeKey != "" && excluded.Has(r.ExcludeKey) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}
