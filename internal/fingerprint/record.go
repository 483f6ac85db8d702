package fingerprint

// Record is one rendered sample under one experimental condition.
type Record[H any] struct {
	ID string
	// Image is compared through a Comparator, never by identity.
	Image H
	// Metadata holds the secondary sort fields, e.g. "browser" or
	// "graphics_card". Values are opaque to the engine.
	Metadata map[string]string
	// ExcludeKey is matched against the exclusion set. Empty means the
	// record can never be excluded.
	ExcludeKey string
}

// Field returns the metadata value for key, or "" when absent.
func (r Record[H]) Field(key string) string {
	return r.Metadata[key]
}

// Class is a non-empty run of records whose images are pairwise equal.
type Class[H any] struct {
	Members []Record[H]
}

// Size returns the number of members.
func (c Class[H]) Size() int {
	return len(c.Members)
}

// Representative returns the member new candidates are compared against.
func (c Class[H]) Representative() Record[H] {
	return c.Members[0]
}

// Result is the ordered outcome of one analysis call.
type Result[H any] struct {
	Classes []Class[H]
	Entropy float64
	// Total is the number of records that took part in grouping.
	Total int
	// Excluded is the number of records dropped by the filter.
	Excluded int
}

// Sizes returns the class sizes in class order.
func (r *Result[H]) Sizes() []int {
	sizes := make([]int, len(r.Classes))
	for i, c := range r.Classes {
		sizes[i] = c.Size()
	}
	return sizes
}

// MaxEntropy is the entropy reached when every record is its own class.
func (r *Result[H]) MaxEntropy() float64 {
	return MaxEntropy(r.Total)
}

// ClassOf returns the index of the class containing the record with the
// given ID, or -1.
func (r *Result[H]) ClassOf(id string) int {
	for i, c := range r.Classes {
		for _, m := range c.Members {
			if m.ID == id {
				return i
			}
		}
	}
	return -1
}
