package models

// ChartType identifies the rendering shape for a result set.
type ChartType string

const (
	ChartTypeBar  ChartType = "bar"
	ChartTypeLine ChartType = "line"
	ChartTypePie  ChartType = "pie"
)

// ChartDataset is a single labelled series of values with per-point colors.
type ChartDataset struct {
	Label            string    `json:"label"`
	Data             []float64 `json:"data"`
	BackgroundColor  []string  `json:"backgroundColor"`
	BorderColor      []string  `json:"borderColor"`
}

// ChartOptions are presentation presets handed to the rendering layer.
// Only the fields relevant to the chart type are populated.
type ChartOptions struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Animation           bool    `json:"animation"`
	Cutout              string  `json:"cutout,omitempty"`        // pie: donut hole
	ShowLegend          bool    `json:"showLegend,omitempty"`    // pie
	Fill                bool    `json:"fill,omitempty"`          // line
	Tension             float64 `json:"tension,omitempty"`       // line: curve smoothing
	ShowGridLines       bool    `json:"showGridLines,omitempty"` // line, bar
	Horizontal          bool    `json:"horizontal"`              // bar
	BarPercentage       float64 `json:"barPercentage,omitempty"` // bar
}

// ChartMetadata records which columns the labels and values were derived
// from, so callers can re-derive the series from the original rows.
type ChartMetadata struct {
	LabelColumn string `json:"label_column"`
	ValueColumn string `json:"value_column"`
	DataCount   int    `json:"data_count"`
}

// ChartSpec is a language-agnostic chart description produced fresh per
// request; it has no persisted identity.
type ChartSpec struct {
	Type     ChartType     `json:"type"`
	Title    string        `json:"title"`
	Labels   []string      `json:"labels"`
	Dataset  ChartDataset  `json:"dataset"`
	Options  ChartOptions  `json:"options"`
	Metadata ChartMetadata `json:"metadata"`
}
