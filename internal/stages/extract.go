// Package stages implements the concrete pipeline stages: data extraction,
// question generation, competitor synthesis, the three content assemblies,
// and the quality gate. Each stage declares its RunState dependencies and the
// fields it produces; stages that call the model validate raw output against
// the matching schema before returning.
package stages

import (
	"context"

	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/record"
)

// DataExtraction maps loosely-shaped input JSON into the canonical
// ProductRecord. Pure transformation: no model call, deterministic,
// idempotent.
type DataExtraction struct {
	input []byte
}

// NewDataExtraction creates the extraction stage over raw input bytes.
func NewDataExtraction(input []byte) *DataExtraction {
	return &DataExtraction{input: input}
}

// Name implements pipeline.Stage.
func (s *DataExtraction) Name() pipeline.StageName { return pipeline.StageDataExtraction }

// Requires implements pipeline.Stage. Extraction has no upstream fields.
func (s *DataExtraction) Requires() []pipeline.Field { return nil }

// Produces implements pipeline.Stage.
func (s *DataExtraction) Produces() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProduct}
}

// Run implements pipeline.Stage. Fails with InvalidInput when required
// attributes are absent or mis-shaped; InvalidInput is fatal, never retried.
func (s *DataExtraction) Run(_ context.Context, _ *pipeline.RunState, _ pipeline.Feedback) (pipeline.Delta, error) {
	product, err := record.ParseProductJSON(s.input)
	if err != nil {
		return pipeline.Delta{}, err
	}
	return pipeline.Delta{Product: product}, nil
}

// Compile-time interface compliance check.
var _ pipeline.Stage = (*DataExtraction)(nil)
