// Package services orchestrates the pipeline stages and the supporting
// conversation log and insight extraction on top of the store.
package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/apperrors"
	"github.com/exportiq/insight-engine/pkg/classify"
	"github.com/exportiq/insight-engine/pkg/models"
	"github.com/exportiq/insight-engine/pkg/resolve"
	"github.com/exportiq/insight-engine/pkg/viz"
)

// Answerer turns a resolved result set into a natural-language answer.
// Implementations typically call an external language model; the
// pipeline only depends on this contract.
type Answerer interface {
	Answer(ctx context.Context, query string, resolution models.Resolution) (string, error)
}

// PipelineResult is the full outcome of processing one query.
type PipelineResult struct {
	Intent     models.Intent     `json:"intent"`
	Resolution models.Resolution `json:"resolution"`
	Chart      *models.ChartSpec `json:"chart,omitempty"`
	Answer     string            `json:"answer,omitempty"`
	Insights   []string          `json:"insights,omitempty"`
}

// Pipeline runs classify, resolve, and visualize in sequence for each
// query. Stages share no mutable state, so one pipeline serves
// concurrent callers.
type Pipeline struct {
	classifier *classify.Classifier
	resolver   *resolve.Resolver
	inferencer *viz.Inferencer
	answerer   Answerer
	logger     *zap.Logger
}

// NewPipeline wires the pipeline stages. answerer may be nil, in which
// case a summary answer is synthesized from the resolution.
func NewPipeline(
	classifier *classify.Classifier,
	resolver *resolve.Resolver,
	inferencer *viz.Inferencer,
	answerer Answerer,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		resolver:   resolver,
		inferencer: inferencer,
		answerer:   answerer,
		logger:     logger,
	}
}

// Process answers one query for a caller holding the given agent codes.
func (p *Pipeline) Process(ctx context.Context, query string, allowedAgentCodes []string) (*PipelineResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("failed to process query: empty query text")
	}
	if len(allowedAgentCodes) == 0 {
		return nil, apperrors.ErrNoAgentAccess
	}

	intent := p.classifier.Classify(query, allowedAgentCodes)
	p.logger.Info("Query classified",
		zap.String("query_type", string(intent.QueryType)),
		zap.String("tool", string(intent.Tool)),
		zap.Strings("allowed_domains", intent.AllowedDomains),
	)

	resolution := p.resolver.Resolve(query, intent)

	result := &PipelineResult{
		Intent:     intent,
		Resolution: resolution,
	}
	if resolution.Success {
		result.Chart = p.inferencer.Infer(query, resolution.Rows)
		result.Insights = ExtractInsights(resolution.Rows)
	}

	answer, err := p.answer(ctx, query, resolution)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	result.Answer = answer

	return result, nil
}

func (p *Pipeline) answer(ctx context.Context, query string, resolution models.Resolution) (string, error) {
	if p.answerer != nil {
		return p.answerer.Answer(ctx, query, resolution)
	}
	if !resolution.Success {
		return "I could not resolve that query against the available data.", nil
	}
	if resolution.RowCount == 0 {
		return "No matching records were found.", nil
	}
	return fmt.Sprintf("%s (%d records).", resolution.DescribedQuery, resolution.RowCount), nil
}
