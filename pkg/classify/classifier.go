// Package classify turns free-text analytics questions (English or
// Arabic) into structured intents: domains, query type, tool, and
// extracted parameters. Classification never fails; absence of signal
// degrades to defaults.
package classify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/config"
	"github.com/exportiq/insight-engine/pkg/models"
)

// typeRule is one step of the query-type cascade. Rules are evaluated
// in order, first match wins: a query containing both "top" and "total"
// classifies as ranking because ranking is checked first.
type typeRule struct {
	queryType models.QueryType
	keywords  []string
}

// queryTypeCascade is the fixed evaluation order for English keywords.
// The Arabic pass reuses the same order with the catalog's Arabic tables.
var queryTypeCascade = []typeRule{
	{models.QueryTypeRanking, []string{"top", "best", "highest", "lowest", "most", "least"}},
	{models.QueryTypeTrend, []string{"trend", "over time", "monthly", "weekly", "daily", "growth"}},
	{models.QueryTypeComparison, []string{"compare", "vs", "versus", "difference", "between"}},
	{models.QueryTypeAggregation, []string{"total", "sum", "count", "average", "mean"}},
	{models.QueryTypeDistribution, []string{"distribution", "breakdown", "by category", "percentage"}},
	{models.QueryTypeCalculation, []string{"calculate", "compute", "what is", "how much"}},
}

var (
	calculatorKeywords = []string{"calculate", "%", "percent", "multiply", "divide"}
	ragKeywords        = []string{"explain", "what is", "how to", "why"}

	sqlQueryTypes = map[models.QueryType]bool{
		models.QueryTypeRanking:      true,
		models.QueryTypeTrend:        true,
		models.QueryTypeComparison:   true,
		models.QueryTypeAggregation:  true,
		models.QueryTypeDistribution: true,
	}
)

// Classifier analyzes queries against the domain-agent catalog.
type Classifier struct {
	catalog *config.Catalog
	logger  *zap.Logger
}

// New creates a classifier over an immutable catalog.
func New(catalog *config.Catalog, logger *zap.Logger) *Classifier {
	return &Classifier{catalog: catalog, logger: logger}
}

// Classify produces an Intent for a query. allowedAgentCodes is the
// caller's permission set; AllowedDomains is the intersection of the
// detected domains with it. RequiredDomains is never empty.
func (c *Classifier) Classify(text string, allowedAgentCodes []string) models.Intent {
	required := c.identifyDomains(text)

	allowedSet := make(map[string]bool, len(allowedAgentCodes))
	for _, code := range allowedAgentCodes {
		allowedSet[code] = true
	}
	var allowed, blocked []string
	for _, d := range required {
		if allowedSet[d] {
			allowed = append(allowed, d)
		} else {
			blocked = append(blocked, d)
		}
	}

	queryType := c.classifyQueryType(text)
	tool := c.selectTool(text, queryType)
	params := extractParameters(text)

	intent := models.Intent{
		Query:           text,
		RequiredDomains: required,
		AllowedDomains:  allowed,
		BlockedDomains:  blocked,
		QueryType:       queryType,
		Tool:            tool,
		Parameters:      params,
		DomainContext:   c.buildDomainContext(allowed),
		Confidence:      confidence(queryType, allowed),
	}
	intent.Reasoning = reasoning(intent)

	c.logger.Info("Classified query",
		zap.String("query_type", string(queryType)),
		zap.String("tool", string(tool)),
		zap.Strings("allowed_domains", allowed),
		zap.Strings("blocked_domains", blocked),
	)

	return intent
}

// identifyDomains matches the query against each agent's English
// keyword list (case-folded substring) and the Arabic keyword table
// (exact substring). Result order follows catalog iteration order, not
// match position. Falls back to the catalog's default domain.
func (c *Classifier) identifyDomains(text string) []string {
	lower := strings.ToLower(text)
	var domains []string
	seen := make(map[string]bool)

	for _, agent := range c.catalog.Agents {
		for _, kw := range agent.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				if !seen[agent.Code] {
					seen[agent.Code] = true
					domains = append(domains, agent.Code)
				}
				break
			}
		}
	}

	for _, agent := range c.catalog.Agents {
		for _, kw := range c.catalog.ArabicDomainKeywords[agent.Code] {
			if strings.Contains(text, kw) {
				if !seen[agent.Code] {
					seen[agent.Code] = true
					domains = append(domains, agent.Code)
				}
				break
			}
		}
	}

	if len(domains) == 0 {
		domains = []string{c.catalog.FallbackDomain}
	}
	return domains
}

func (c *Classifier) classifyQueryType(text string) models.QueryType {
	lower := strings.ToLower(text)

	for _, rule := range queryTypeCascade {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.queryType
			}
		}
	}

	// Arabic pass, same cascade order.
	for _, rule := range queryTypeCascade {
		for _, kw := range c.catalog.ArabicQueryTypeKeywords[string(rule.queryType)] {
			if strings.Contains(text, kw) {
				return rule.queryType
			}
		}
	}

	return models.QueryTypeGeneral
}

// selectTool picks the resolution strategy. Calculator keywords take
// priority over query-type routing; explanatory keywords route to the
// text-search fallback; everything else is SQL.
func (c *Classifier) selectTool(text string, queryType models.QueryType) models.Tool {
	lower := strings.ToLower(text)

	for _, kw := range calculatorKeywords {
		if strings.Contains(lower, kw) {
			return models.ToolCalculator
		}
	}
	if sqlQueryTypes[queryType] {
		return models.ToolSQL
	}
	for _, kw := range ragKeywords {
		if strings.Contains(lower, kw) {
			return models.ToolRAG
		}
	}
	return models.ToolSQL
}

// buildDomainContext unions the tables declared by the allowed domains
// (duplicates removed) and collects their advisory SQL hints.
func (c *Classifier) buildDomainContext(domains []string) models.DomainContext {
	ctx := models.DomainContext{}
	seen := make(map[string]bool)

	for _, code := range domains {
		agent, ok := c.catalog.AgentByCode(code)
		if !ok {
			continue
		}
		for _, t := range agent.Tables {
			if !seen[t] {
				seen[t] = true
				ctx.Tables = append(ctx.Tables, t)
			}
		}
		if hint, ok := c.catalog.SQLHints[code]; ok {
			ctx.SQLHints = append(ctx.SQLHints, hint)
		}
	}

	if len(domains) > 0 {
		ctx.PrimaryDomain = domains[0]
	}
	return ctx
}

func confidence(queryType models.QueryType, domains []string) models.Confidence {
	switch {
	case queryType == models.QueryTypeGeneral || len(domains) == 0:
		return models.ConfidenceLow
	case (queryType == models.QueryTypeRanking || queryType == models.QueryTypeAggregation) && len(domains) == 1:
		return models.ConfidenceHigh
	case len(domains) > 2:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceHigh
	}
}

func reasoning(intent models.Intent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query classified as '%s' type. Selected '%s' tool for processing.", intent.QueryType, intent.Tool)
	if len(intent.AllowedDomains) > 0 {
		fmt.Fprintf(&sb, " Identified domains: %s.", strings.Join(intent.AllowedDomains, ", "))
	}
	switch intent.Tool {
	case models.ToolSQL:
		sb.WriteString(" Will generate SQL query to fetch relevant data.")
	case models.ToolCalculator:
		sb.WriteString(" Will perform mathematical calculations.")
	case models.ToolRAG:
		sb.WriteString(" Will search stored records for relevant information.")
	}
	return sb.String()
}
