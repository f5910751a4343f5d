package models

// Record is an open, schemaless row: field name to value. Values are the
// JSON-shaped scalars plus nested []Record / []any lists (subtables).
// Records are owned by the collection that holds them; code that hands
// records to callers must Clone first.
type Record map[string]any

// Clone returns a shallow copy of the record. Nested lists and maps are
// shared with the original, which is fine for read paths; mutating code
// must copy the nested values it touches.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SubtableItems returns the field as a list of nested records when it is
// list-valued. Items that are not maps are skipped.
func (r Record) SubtableItems(field string) ([]Record, bool) {
	raw, ok := r[field]
	if !ok {
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		// Already-typed nested records (e.g. built in tests).
		if typed, ok := raw.([]Record); ok {
			return typed, true
		}
		return nil, false
	}
	items := make([]Record, 0, len(list))
	for _, el := range list {
		switch m := el.(type) {
		case map[string]any:
			items = append(items, Record(m))
		case Record:
			items = append(items, m)
		}
	}
	return items, true
}
