package models

// QueryType is the coarse classification of what a question is asking for.
type QueryType string

const (
	QueryTypeRanking      QueryType = "ranking"
	QueryTypeTrend        QueryType = "trend"
	QueryTypeComparison   QueryType = "comparison"
	QueryTypeAggregation  QueryType = "aggregation"
	QueryTypeDistribution QueryType = "distribution"
	QueryTypeCalculation  QueryType = "calculation"
	QueryTypeGeneral      QueryType = "general"
)

// Tool is the resolution strategy selected for a query.
type Tool string

const (
	ToolSQL        Tool = "sql"
	ToolCalculator Tool = "calculator"
	ToolRAG        Tool = "rag"
)

// Confidence is the classifier's self-assessment of its analysis.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Parameters holds values extracted from the query text. Zero values mean
// "not present"; the resolver supplies its own defaults.
type Parameters struct {
	Limit       int    `json:"limit,omitempty"`
	Order       string `json:"order,omitempty"` // "asc" or "desc", empty if unspecified
	DateContext string `json:"date_context,omitempty"`
	Location    string `json:"location,omitempty"`
}

// DomainContext carries the tables and advisory hints for the domains a
// query touches.
type DomainContext struct {
	Tables        []string `json:"tables"`
	SQLHints      []string `json:"sql_hints,omitempty"`
	PrimaryDomain string   `json:"primary_domain,omitempty"`
}

// Intent is the structured interpretation of a free-text query.
// RequiredDomains is never empty: classification falls back to the
// catalog's default domain when no keyword matches. AllowedDomains is
// always a subset of RequiredDomains.
type Intent struct {
	Query           string        `json:"query"`
	RequiredDomains []string      `json:"required_domains"`
	AllowedDomains  []string      `json:"allowed_domains"`
	BlockedDomains  []string      `json:"blocked_domains"`
	QueryType       QueryType     `json:"query_type"`
	Tool            Tool          `json:"tool"`
	Parameters      Parameters    `json:"parameters"`
	DomainContext   DomainContext `json:"domain_context"`
	Confidence      Confidence    `json:"confidence"`
	Reasoning       string        `json:"reasoning,omitempty"`
}
