package stages

import (
	"context"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/prompt"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/schema"
)

// AssembleFAQ produces the FAQ page. With ReuseQuestions set, the page is
// built from the generated question set verbatim and no model call is made;
// otherwise one model call renders the page anchored on those questions.
type AssembleFAQ struct {
	client         llm.Client
	reuseQuestions bool
}

// NewAssembleFAQ creates the FAQ assembly stage.
func NewAssembleFAQ(client llm.Client, reuseQuestions bool) *AssembleFAQ {
	return &AssembleFAQ{client: client, reuseQuestions: reuseQuestions}
}

// Name implements pipeline.Stage.
func (s *AssembleFAQ) Name() pipeline.StageName { return pipeline.StageAssembleFAQ }

// Requires implements pipeline.Stage.
func (s *AssembleFAQ) Requires() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProduct, pipeline.FieldQuestions}
}

// Produces implements pipeline.Stage.
func (s *AssembleFAQ) Produces() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldFAQ}
}

// Run implements pipeline.Stage.
func (s *AssembleFAQ) Run(ctx context.Context, state *pipeline.RunState, fb pipeline.Feedback) (pipeline.Delta, error) {
	product := state.Product()
	questions := state.Questions()

	if s.reuseQuestions {
		return pipeline.Delta{FAQ: faqFromQuestions(product, questions)}, nil
	}

	p := prompt.WithFeedback(prompt.FAQ(product, questions), fb.Attempt, fb.Reason)
	raw, err := s.client.Generate(ctx, p, schema.FAQPageSchema)
	if err != nil {
		return pipeline.Delta{}, err
	}

	var page record.FAQPage
	if err := schema.Parse(raw, schema.FAQPageSchema, &page); err != nil {
		return pipeline.Delta{}, err
	}
	return pipeline.Delta{FAQ: &page}, nil
}

// faqFromQuestions converts the validated question set into a FAQ page
// without a model call, grouping entries by category in canonical order so
// the page reads section by section. The set's invariant already guarantees
// the page meets the count and category requirements.
func faqFromQuestions(product *record.ProductRecord, questions *record.QuestionSet) *record.FAQPage {
	items := make([]record.FAQItem, 0, len(questions.Questions))
	grouped := questions.ByCategory()
	for _, cat := range record.Categories() {
		for _, q := range grouped[cat] {
			items = append(items, record.FAQItem{
				Question: q.Question,
				Answer:   q.Answer,
				Category: q.Category,
			})
		}
	}
	return &record.FAQPage{ProductName: product.ProductName, FAQs: items}
}

// AssembleProductPage produces the marketing product page with one model call.
type AssembleProductPage struct {
	client llm.Client
}

// NewAssembleProductPage creates the product page assembly stage.
func NewAssembleProductPage(client llm.Client) *AssembleProductPage {
	return &AssembleProductPage{client: client}
}

// Name implements pipeline.Stage.
func (s *AssembleProductPage) Name() pipeline.StageName { return pipeline.StageAssembleProductPage }

// Requires implements pipeline.Stage.
func (s *AssembleProductPage) Requires() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProduct}
}

// Produces implements pipeline.Stage.
func (s *AssembleProductPage) Produces() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProductPage}
}

// Run implements pipeline.Stage.
func (s *AssembleProductPage) Run(ctx context.Context, state *pipeline.RunState, fb pipeline.Feedback) (pipeline.Delta, error) {
	p := prompt.WithFeedback(prompt.ProductPage(state.Product()), fb.Attempt, fb.Reason)

	raw, err := s.client.Generate(ctx, p, schema.ProductPageSchema)
	if err != nil {
		return pipeline.Delta{}, err
	}

	var page record.ProductPage
	if err := schema.Parse(raw, schema.ProductPageSchema, &page); err != nil {
		return pipeline.Delta{}, err
	}
	return pipeline.Delta{ProductPage: &page}, nil
}

// AssembleComparison produces the comparison page with one model call.
type AssembleComparison struct {
	client llm.Client
}

// NewAssembleComparison creates the comparison page assembly stage.
func NewAssembleComparison(client llm.Client) *AssembleComparison {
	return &AssembleComparison{client: client}
}

// Name implements pipeline.Stage.
func (s *AssembleComparison) Name() pipeline.StageName { return pipeline.StageAssembleComparison }

// Requires implements pipeline.Stage.
func (s *AssembleComparison) Requires() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldProduct, pipeline.FieldCompetitor}
}

// Produces implements pipeline.Stage.
func (s *AssembleComparison) Produces() []pipeline.Field {
	return []pipeline.Field{pipeline.FieldComparison}
}

// Run implements pipeline.Stage.
func (s *AssembleComparison) Run(ctx context.Context, state *pipeline.RunState, fb pipeline.Feedback) (pipeline.Delta, error) {
	p := prompt.WithFeedback(prompt.Comparison(state.Product(), state.Competitor()), fb.Attempt, fb.Reason)

	raw, err := s.client.Generate(ctx, p, schema.ComparisonPageSchema)
	if err != nil {
		return pipeline.Delta{}, err
	}

	var page record.ComparisonPage
	if err := schema.Parse(raw, schema.ComparisonPageSchema, &page); err != nil {
		return pipeline.Delta{}, err
	}
	return pipeline.Delta{Comparison: &page}, nil
}

// Compile-time interface compliance checks.
var (
	_ pipeline.Stage = (*AssembleFAQ)(nil)
	_ pipeline.Stage = (*AssembleProductPage)(nil)
	_ pipeline.Stage = (*AssembleComparison)(nil)
)
