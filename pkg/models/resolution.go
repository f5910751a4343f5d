package models

// Resolution is the data resolver's output: the rows it fetched plus a
// human-readable description of what was fetched. Failures never
// propagate as errors; Success is false and Rows is empty instead.
type Resolution struct {
	Rows           []Record `json:"rows"`
	RowCount       int      `json:"row_count"`
	DescribedQuery string   `json:"described_query"`
	Tool           Tool     `json:"tool"`
	Success        bool     `json:"success"`
	Error          string   `json:"error,omitempty"`
}
