package fingerprint

// Group partitions records into equivalence classes under cmp.
//
// Each record is compared against the representative of every existing class
// in creation order and joins the first one it equals; otherwise it opens a
// new class. Classes therefore appear in first-seen order and members keep
// their input order. Any comparator error aborts the whole grouping.
func Group[H any](records []Record[H], cmp Comparator[H]) ([]Class[H], error) {
	validator, _ := cmp.(Validator[H])

	var classes []Class[H]
	for _, rec := range records {
		if validator != nil {
			if err := validator.Validate(rec.Image); err != nil {
				return nil, withRecord(err, rec.ID)
			}
		}

		placed := false
		for i := range classes {
			eq, err := cmp.Equal(classes[i].Representative().Image, rec.Image)
			if err != nil {
				return nil, withRecord(err, rec.ID)
			}
			if eq {
				classes[i].Members = append(classes[i].Members, rec)
				placed = true
				break
			}
		}
		if !placed {
			classes = append(classes, Class[H]{Members: []Record[H]{rec}})
		}
	}
	return classes, nil
}
