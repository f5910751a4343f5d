package models

// DomainAgent is a static catalog entry describing one business area:
// the tables it owns and the keywords that route queries to it.
// Supplied externally and read-only at runtime.
type DomainAgent struct {
	Code        string   `json:"code" yaml:"code"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tables      []string `json:"tables" yaml:"tables"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

// SubtableRule maps a query keyword (English or Arabic) to the nested
// list-valued fields it should extract from parent records, with a human
// label per field. On overlapping keywords the longest keyword wins.
type SubtableRule struct {
	Keyword string         `json:"keyword" yaml:"keyword"`
	Fields  []string       `json:"fields" yaml:"fields"`
	Labels  map[string]string `json:"labels" yaml:"labels"`
}

// Label returns the human label for a nested field, falling back to the
// field name itself.
func (r SubtableRule) Label(field string) string {
	if l, ok := r.Labels[field]; ok && l != "" {
		return l
	}
	return field
}
