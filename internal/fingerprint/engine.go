package fingerprint

import "fmt"

// Engine runs the analysis pipeline with a fixed comparator.
type Engine[H any] struct {
	cmp Comparator[H]
}

// New creates an engine that decides equality with cmp.
func New[H any](cmp Comparator[H]) *Engine[H] {
	return &Engine[H]{cmp: cmp}
}

// Analyze filters, groups, orders and scores records, using keyOrder for
// both the member and the class sort.
func (e *Engine[H]) Analyze(records []Record[H], keyOrder []string, excluded KeySet) (*Result[H], error) {
	return e.AnalyzeOrdered(records, SameOrdering(keyOrder), excluded)
}

// AnalyzeOrdered is Analyze with separate member and class key orders.
func (e *Engine[H]) AnalyzeOrdered(records []Record[H], o Ordering, excluded KeySet) (*Result[H], error) {
	if err := validateInput(records, o); err != nil {
		return nil, err
	}

	kept, dropped := Filter(records, excluded)

	classes, err := Group(kept, e.cmp)
	if err != nil {
		return nil, err
	}
	classes = Order(classes, o)

	return &Result[H]{
		Classes:  classes,
		Entropy:  Entropy(classes),
		Total:    len(kept),
		Excluded: dropped,
	}, nil
}

// Analyze runs the default pixel-equality engine.
func Analyze(records []Record[Handle], keyOrder []string, excluded KeySet) (*Result[Handle], error) {
	return New[Handle](PixelOracle{}).Analyze(records, keyOrder, excluded)
}

// validateInput rejects malformed calls before any image is touched. A sort
// key must be non-empty and present on at least one record, and record IDs
// must be unique.
func validateInput[H any](records []Record[H], o Ordering) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return &InputError{Field: "records", Reason: fmt.Sprintf("duplicate record id %q", r.ID)}
		}
		seen[r.ID] = struct{}{}
	}

	if len(records) == 0 {
		return nil
	}

	for _, k := range o.Keys() {
		if k == "" {
			return &InputError{Field: "keyOrder", Reason: "empty metadata key"}
		}
		found := false
		for _, r := range records {
			if _, ok := r.Metadata[k]; ok {
				found = true
				break
			}
		}
		if !found {
			return &InputError{Field: "keyOrder", Reason: fmt.Sprintf("metadata key %q is absent from every record", k)}
		}
	}
	return nil
}
