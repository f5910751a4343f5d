package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/exportiq/insight-engine/pkg/models"
)

// Catalog is the immutable routing configuration: domain agents with
// their keyword and table lists, the bilingual keyword tables, and the
// subtable extraction rules. Built once at startup and passed by
// reference into the classifier and resolver.
type Catalog struct {
	Agents []models.DomainAgent `yaml:"agents"`

	// FallbackDomain is used when no domain keyword matches.
	FallbackDomain string `yaml:"fallback_domain"`

	// PrimaryTable is the platform's main entity table; overview
	// summaries and the project-precedence rules key off it.
	PrimaryTable string `yaml:"primary_table"`

	// ArabicDomainKeywords routes Arabic query text to domain codes.
	// Matching is plain substring containment; Arabic has no case folding.
	ArabicDomainKeywords map[string][]string `yaml:"arabic_domain_keywords"`

	// ArabicQueryTypeKeywords supplements the English query-type cascade.
	ArabicQueryTypeKeywords map[string][]string `yaml:"arabic_query_type_keywords"`

	// SubtableRules map query keywords to nested fields of the primary
	// table. Kept sorted by keyword length descending so multi-word
	// keywords win over their substrings ("bank guarantee" over "bank").
	SubtableRules []models.SubtableRule `yaml:"subtable_rules"`

	// RankColumns gives the default ORDER BY column per table for
	// ranking queries.
	RankColumns map[string]string `yaml:"rank_columns"`

	// SQLHints are advisory strings per domain, passed through to the
	// answer-generation collaborator.
	SQLHints map[string]string `yaml:"sql_hints"`

	// SystemTables are excluded from the RAG scan.
	SystemTables []string `yaml:"system_tables"`
}

// LoadCatalog returns the compiled-in default catalog, optionally
// overridden field-by-field from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	cat := DefaultCatalog()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cat); err != nil {
			return nil, fmt.Errorf("failed to parse catalog file: %w", err)
		}
	}
	cat.normalize()
	return cat, nil
}

// normalize enforces the invariants the classifier and resolver rely on.
func (c *Catalog) normalize() {
	// Longest keyword first; ties keep declaration order.
	sort.SliceStable(c.SubtableRules, func(i, j int) bool {
		return len(c.SubtableRules[i].Keyword) > len(c.SubtableRules[j].Keyword)
	})
}

// AgentByCode returns the catalog entry for a domain code.
func (c *Catalog) AgentByCode(code string) (models.DomainAgent, bool) {
	for _, a := range c.Agents {
		if a.Code == code {
			return a, true
		}
	}
	return models.DomainAgent{}, false
}

// IsSystemTable reports whether a table is internal bookkeeping and must
// be skipped by the text-search fallback.
func (c *Catalog) IsSystemTable(table string) bool {
	for _, t := range c.SystemTables {
		if t == table {
			return true
		}
	}
	return false
}

// DefaultCatalog is the compiled-in catalog for the export-insights
// dataset: five business domains over the projects/sales/inventory
// collections.
func DefaultCatalog() *Catalog {
	return &Catalog{
		FallbackDomain: "projects",
		PrimaryTable:   "projects",
		Agents: []models.DomainAgent{
			{
				Code:        "sales",
				Name:        "Sales Analytics Agent",
				Description: "Analyzes sales data, revenue trends, and customer behavior",
				Tables:      []string{"sales", "items", "projects"},
				Keywords:    []string{"sales", "revenue", "sold", "customer", "top items", "project", "contract", "opportunity"},
			},
			{
				Code:        "inventory",
				Name:        "Inventory Management Agent",
				Description: "Monitors stock levels, reorder points, and warehouse operations",
				Tables:      []string{"inventory", "items"},
				Keywords:    []string{"inventory", "stock", "warehouse", "reorder", "quantity"},
			},
			{
				Code:        "purchasing",
				Name:        "Purchasing Agent",
				Description: "Manages vendor analysis, purchase orders, and procurement",
				Tables:      []string{"purchasing", "vendors", "projects"},
				Keywords:    []string{"purchase", "vendor", "supplier", "lead time", "order"},
			},
			{
				Code:        "accounting",
				Name:        "Accounting Agent",
				Description: "Handles financial analysis, costs, margins, and profitability",
				Tables:      []string{"items", "costs", "projects"},
				Keywords:    []string{"cost", "margin", "profit", "pricing", "financial"},
			},
			{
				Code:        "projects",
				Name:        "Project Analytics Agent",
				Description: "Tracks project performance, status, and profitability",
				Tables:      []string{"projects", "sales", "purchasing"},
				Keywords:    []string{"project", "status", "profitability", "completion", "contract"},
			},
		},
		ArabicDomainKeywords: map[string][]string{
			"projects":   {"مشروع", "مشاريع", "حالة المشروع", "بيانات المشروع"},
			"sales":      {"مبيعات", "إيرادات", "عميل", "فاتورة", "فواتير", "أمر بيع", "أوامر بيع", "توريد"},
			"inventory":  {"مخزون", "مخازن", "كمية", "إعادة طلب"},
			"purchasing": {"مشتريات", "مورد", "موردين", "أمر شراء", "طلب شراء"},
			"accounting": {"تكلفة", "ربح", "هامش", "مالي", "محاسبة", "ضريبة"},
		},
		ArabicQueryTypeKeywords: map[string][]string{
			"ranking":     {"أعلى", "أفضل", "أكثر", "أقل", "أدنى", "ترتيب"},
			"trend":       {"اتجاه", "شهري", "أسبوعي", "يومي", "نمو"},
			"comparison":  {"مقارنة", "قارن", "بين", "فرق"},
			"aggregation": {"إجمالي", "مجموع", "عدد", "متوسط", "كم"},
		},
		SubtableRules: []models.SubtableRule{
			{Keyword: "cancel bank", Fields: []string{"cancelled_bank_guarantees"}, Labels: map[string]string{"cancelled_bank_guarantees": "Cancelled Bank Guarantees"}},
			{Keyword: "bank guarantee", Fields: []string{"bank_guarantees", "cancelled_bank_guarantees"}, Labels: map[string]string{"bank_guarantees": "Bank Guarantees", "cancelled_bank_guarantees": "Cancelled Bank Guarantees"}},
			{Keyword: "bank", Fields: []string{"bank_guarantees", "cancelled_bank_guarantees"}, Labels: map[string]string{"bank_guarantees": "Bank Guarantees", "cancelled_bank_guarantees": "Cancelled Bank Guarantees"}},
			{Keyword: "guarantee", Fields: []string{"bank_guarantees", "cancelled_bank_guarantees"}, Labels: map[string]string{"bank_guarantees": "Bank Guarantees", "cancelled_bank_guarantees": "Cancelled Bank Guarantees"}},
			{Keyword: "invoice", Fields: []string{"sales_invoices", "purchase_invoices"}, Labels: map[string]string{"sales_invoices": "Sales Invoices", "purchase_invoices": "Purchase Invoices"}},
			{Keyword: "sales order", Fields: []string{"sales_orders"}, Labels: map[string]string{"sales_orders": "Sales Orders"}},
			{Keyword: "purchase order", Fields: []string{"purchase_orders"}, Labels: map[string]string{"purchase_orders": "Purchase Orders"}},
			{Keyword: "order", Fields: []string{"sales_orders", "purchase_orders"}, Labels: map[string]string{"sales_orders": "Sales Orders", "purchase_orders": "Purchase Orders"}},
			{Keyword: "opportunity", Fields: []string{"opportunities"}, Labels: map[string]string{"opportunities": "Opportunities"}},
			{Keyword: "quotation", Fields: []string{"quotations", "supplier_quotations"}, Labels: map[string]string{"quotations": "Quotations", "supplier_quotations": "Supplier Quotations"}},
			{Keyword: "offer", Fields: []string{"offer_notes"}, Labels: map[string]string{"offer_notes": "Offer Notes"}},
			{Keyword: "contract", Fields: []string{"contract_modifications"}, Labels: map[string]string{"contract_modifications": "Contract Modifications"}},
			{Keyword: "modification", Fields: []string{"contract_modifications"}, Labels: map[string]string{"contract_modifications": "Contract Modifications"}},
			{Keyword: "assay", Fields: []string{"estimated_assays"}, Labels: map[string]string{"estimated_assays": "Estimated Assays"}},
			{Keyword: "certificate", Fields: []string{"certificate_requests"}, Labels: map[string]string{"certificate_requests": "Certificate Requests"}},
			{Keyword: "claim", Fields: []string{"payment_claims"}, Labels: map[string]string{"payment_claims": "Payment Claims"}},
			{Keyword: "payment", Fields: []string{"payment_claims"}, Labels: map[string]string{"payment_claims": "Payment Claims"}},
			{Keyword: "tax", Fields: []string{"tax_statuses"}, Labels: map[string]string{"tax_statuses": "Tax Statuses"}},
			{Keyword: "hazard", Fields: []string{"hazard_notes"}, Labels: map[string]string{"hazard_notes": "Hazard Notes"}},
			{Keyword: "risk", Fields: []string{"hazard_notes"}, Labels: map[string]string{"hazard_notes": "Hazard Notes"}},
			{Keyword: "ضمان بنكي", Fields: []string{"bank_guarantees", "cancelled_bank_guarantees"}, Labels: map[string]string{"bank_guarantees": "Bank Guarantees", "cancelled_bank_guarantees": "Cancelled Bank Guarantees"}},
			{Keyword: "فاتورة", Fields: []string{"sales_invoices", "purchase_invoices"}, Labels: map[string]string{"sales_invoices": "Sales Invoices", "purchase_invoices": "Purchase Invoices"}},
			{Keyword: "مطالبة", Fields: []string{"payment_claims"}, Labels: map[string]string{"payment_claims": "Payment Claims"}},
			{Keyword: "عقد", Fields: []string{"contract_modifications"}, Labels: map[string]string{"contract_modifications": "Contract Modifications"}},
		},
		RankColumns: map[string]string{
			"sales":     "amount",
			"inventory": "quantity",
			"projects":  "total_sales_amount",
		},
		SQLHints: map[string]string{
			"sales":      "Use 'amount' or 'total' columns for revenue calculations",
			"inventory":  "Use 'quantity' for stock levels, positive = inbound, negative = outbound",
			"purchasing": "Check 'lead_time' for vendor performance",
			"accounting": "Use 'cost_price' and 'sell_price' for margin calculations",
		},
		SystemTables: []string{"users", "agents", "user_agents", "conversations", "feedback", "settings"},
	}
}
