package stages

import (
	"context"
	"strings"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/prompt"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/schema"
)

// CompetitorSynthesis generates the synthetic competitor with one model call.
// The competitor must differ from the original on name and at least one other
// attribute; an echo of the original is retryable with an explicit
// differentiation instruction appended to the next prompt.
type CompetitorSynthesis struct {
	client llm.Client
}

// NewCompetitorSynthesis creates the stage over a model client.
func NewCompetitorSynthesis(client llm.Client) *CompetitorSynthesis {
	return &CompetitorSynthesis{client: client}
}

// Name implements pipeline.Stage.
func (s *CompetitorSynthesis) Name() pipeline.StageName { return pipeline.StageCompetitorSynthesis }

// Requires implements pipeline.Stage.
func (s *CompetitorSynthesis) Requires() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProduct}
}

// Produces implements pipeline.Stage.
func (s *CompetitorSynthesis) Produces() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldCompetitor}
}

// Run implements pipeline.Stage.
func (s *CompetitorSynthesis) Run(ctx context.Context, state *pipeline.RunState, fb pipeline.Feedback) (pipeline.Delta, error) {
	original := state.Product()
	p := prompt.WithFeedback(prompt.Competitor(original), fb.Attempt, fb.Reason)

	raw, err := s.client.Generate(ctx, p, schema.CompetitorSchema)
	if err != nil {
		return pipeline.Delta{}, err
	}

	competitor, err := decodeCompetitor(raw)
	if err != nil {
		return pipeline.Delta{}, err
	}

	if strings.EqualFold(strings.TrimSpace(competitor.ProductName), strings.TrimSpace(original.ProductName)) {
		return pipeline.Delta{}, &pipeline.DifferentiationError{CompetitorName: competitor.ProductName, SameName: true}
	}
	if len(original.Differentiators(competitor)) == 0 {
		return pipeline.Delta{}, &pipeline.DifferentiationError{CompetitorName: competitor.ProductName}
	}

	return pipeline.Delta{Competitor: competitor}, nil
}

// decodeCompetitor extracts, normalizes, and validates the competitor record
// from raw model text. Models answer with display-style keys often enough
// that the alias normalization from input parsing is applied first.
func decodeCompetitor(raw string) (*record.ProductRecord, error) {
	data, err := schema.ExtractJSON(raw)
	if err != nil {
		return nil, &schema.Violation{Schema: schema.CompetitorSchema.Name, MalformedFields: []string{err.Error()}}
	}

	normalized := record.NormalizeKeys(data)
	if err := schema.Validate(normalized, schema.CompetitorSchema); err != nil {
		return nil, err
	}

	competitor, err := record.ParseProduct(normalized)
	if err != nil {
		// Validation passed but parsing rejected a coerced value; surface it
		// as a schema problem so the retry policy applies.
		return nil, &schema.Violation{Schema: schema.CompetitorSchema.Name, MalformedFields: []string{err.Error()}}
	}
	return competitor, nil
}

// Compile-time interface compliance check.
var _ pipeline.Stage = (*CompetitorSynthesis)(nil)
