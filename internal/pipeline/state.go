package pipeline

import (
	"sync"

	"github.com/raveheart1/pagecraft/internal/record"
)

// Field names one slot in the RunState accumulator.
type Field string

const (
	FieldProduct     Field = "product"
	FieldQuestions   Field = "questions"
	FieldCompetitor  Field = "competitor"
	FieldFAQ         Field = "faq"
	FieldProductPage Field = "product_page"
	FieldComparison  Field = "comparison"
)

// Delta is the partial update a stage returns. Only the fields a stage
// declares in Produces may be non-nil; the merge rejects anything else.
type Delta struct {
	Product     *record.ProductRecord
	Questions   *record.QuestionSet
	Competitor  *record.ProductRecord
	FAQ         *record.FAQPage
	ProductPage *record.ProductPage
	Comparison  *record.ComparisonPage
}

// Fields returns the names of the fields the delta sets.
func (d Delta) Fields() []Field {
	var out []Field
	if d.Product != nil {
		out = append(out, FieldProduct)
	}
	if d.Questions != nil {
		out = append(out, FieldQuestions)
	}
	if d.Competitor != nil {
		out = append(out, FieldCompetitor)
	}
	if d.FAQ != nil {
		out = append(out, FieldFAQ)
	}
	if d.ProductPage != nil {
		out = append(out, FieldProductPage)
	}
	if d.Comparison != nil {
		out = append(out, FieldComparison)
	}
	return out
}

// RunState is the run-scoped accumulator threaded through stages. Fields
// transition absent -> present exactly once; stages never mutate it directly,
// they return Deltas the orchestrator merges. Access is guarded so stages in
// the same dependency tier can merge concurrently.
type RunState struct {
	mu          sync.RWMutex
	product     *record.ProductRecord
	questions   *record.QuestionSet
	competitor  *record.ProductRecord
	faq         *record.FAQPage
	productPage *record.ProductPage
	comparison  *record.ComparisonPage
}

// NewRunState returns an empty accumulator for one run.
func NewRunState() *RunState {
	return &RunState{}
}

// Has reports whether the field has been set.
func (s *RunState) Has(f Field) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.present(f)
}

func (s *RunState) present(f Field) bool {
	switch f {
	case FieldProduct:
		return s.product != nil
	case FieldQuestions:
		return s.questions != nil
	case FieldCompetitor:
		return s.competitor != nil
	case FieldFAQ:
		return s.faq != nil
	case FieldProductPage:
		return s.productPage != nil
	case FieldComparison:
		return s.comparison != nil
	default:
		return false
	}
}

// Merge applies a stage's delta, enforcing the append-only contract: the
// delta may only set fields in allowed, and never a field already present.
func (s *RunState) Merge(stage StageName, allowed []Field, d Delta) error {
	allowedSet := make(map[Field]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range d.Fields() {
		if !allowedSet[f] {
			return &StateConflictError{Stage: stage, Field: f, Undeclared: true}
		}
		if s.present(f) {
			return &StateConflictError{Stage: stage, Field: f}
		}
	}

	if d.Product != nil {
		s.product = d.Product
	}
	if d.Questions != nil {
		s.questions = d.Questions
	}
	if d.Competitor != nil {
		s.competitor = d.Competitor
	}
	if d.FAQ != nil {
		s.faq = d.FAQ
	}
	if d.ProductPage != nil {
		s.productPage = d.ProductPage
	}
	if d.Comparison != nil {
		s.comparison = d.Comparison
	}
	return nil
}

// Product returns the original product record.
func (s *RunState) Product() *record.ProductRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.product
}

// Questions returns the generated question set.
func (s *RunState) Questions() *record.QuestionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions
}

// Competitor returns the synthetic competitor record.
func (s *RunState) Competitor() *record.ProductRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.competitor
}

// FAQ returns the assembled FAQ page.
func (s *RunState) FAQ() *record.FAQPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faq
}

// ProductPage returns the assembled product page.
func (s *RunState) ProductPage() *record.ProductPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productPage
}

// Comparison returns the assembled comparison page.
func (s *RunState) Comparison() *record.ComparisonPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comparison
}
