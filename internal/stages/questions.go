package stages

import (
	"context"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/prompt"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/schema"
)

// QuestionGeneration produces the categorized question set with one model
// call. The 15-minimum / all-categories invariant is validated here; a
// violation is retryable with the failure fed back into a stricter prompt.
type QuestionGeneration struct {
	client llm.Client
}

// NewQuestionGeneration creates the stage over a model client.
func NewQuestionGeneration(client llm.Client) *QuestionGeneration {
	return &QuestionGeneration{client: client}
}

// Name implements pipeline.Stage.
func (s *QuestionGeneration) Name() pipeline.StageName { return pipeline.StageQuestionGeneration }

// Requires implements pipeline.Stage.
func (s *QuestionGeneration) Requires() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProduct}
}

// Produces implements pipeline.Stage.
func (s *QuestionGeneration) Produces() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldQuestions}
}

// Run implements pipeline.Stage.
func (s *QuestionGeneration) Run(ctx context.Context, state *pipeline.RunState, fb pipeline.Feedback) (pipeline.Delta, error) {
	p := prompt.WithFeedback(prompt.Questions(state.Product()), fb.Attempt, fb.Reason)

	raw, err := s.client.Generate(ctx, p, schema.QuestionSetSchema)
	if err != nil {
		return pipeline.Delta{}, err
	}

	var qs record.QuestionSet
	if err := schema.Parse(raw, schema.QuestionSetSchema, &qs); err != nil {
		return pipeline.Delta{}, err
	}

	// The schema enforces count and per-entry shape; category coverage is a
	// set-level invariant checked here.
	if problems := qs.Problems(); len(problems) > 0 {
		return pipeline.Delta{}, &schema.Violation{
			Schema:          schema.QuestionSetSchema.Name,
			MalformedFields: problems,
		}
	}

	return pipeline.Delta{Questions: &qs}, nil
}

// Compile-time interface compliance check.
var _ pipeline.Stage = (*QuestionGeneration)(nil)
