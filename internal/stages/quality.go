package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/schema"
)

// Quality thresholds applied in addition to schema conformance.
const (
	minVerdictLength = 10
)

// QualityCheck re-validates every produced document and applies
// cross-document consistency checks. Pure: no model call. A failure is
// terminal and carries every reason found, for manual intervention or a
// re-run.
type QualityCheck struct{}

// NewQualityCheck creates the quality gate stage.
func NewQualityCheck() *QualityCheck {
	return &QualityCheck{}
}

// Name implements pipeline.Stage.
func (s *QualityCheck) Name() pipeline.StageName { return pipeline.StageQualityCheck }

// Requires implements pipeline.Stage. The gate joins on everything.
func (s *QualityCheck) Requires() []pipeline.Field {
	return []pipeline.Field{
		pipeline.FieldProduct,
		pipeline.FieldCompetitor,
		pipeline.FieldFAQ,
		pipeline.FieldProductPage,
		pipeline.FieldComparison,
	}
}

// Produces implements pipeline.Stage. The gate sets no fields.
func (s *QualityCheck) Produces() []pipeline.Field { return nil }

// Run implements pipeline.Stage.
func (s *QualityCheck) Run(_ context.Context, state *pipeline.RunState, _ pipeline.Feedback) (pipeline.Delta, error) {
	var reasons []string

	product := state.Product()
	competitor := state.Competitor()
	faq := state.FAQ()
	productPage := state.ProductPage()
	comparison := state.Comparison()

	reasons = append(reasons, reverify("faq.json", faq, schema.FAQPageSchema)...)
	reasons = append(reasons, reverify("product_page.json", productPage, schema.ProductPageSchema)...)
	reasons = append(reasons, reverify("comparison_page.json", comparison, schema.ComparisonPageSchema)...)

	// Cross-document consistency: every page must reference the original
	// product by its exact name, and the comparison must name both products.
	if faq.ProductName != product.ProductName {
		reasons = append(reasons, fmt.Sprintf("faq.json product_name %q does not match product %q", faq.ProductName, product.ProductName))
	}
	if productPage.ProductName != product.ProductName {
		reasons = append(reasons, fmt.Sprintf("product_page.json product_name %q does not match product %q", productPage.ProductName, product.ProductName))
	}
	if comparison.ProductAName != product.ProductName {
		reasons = append(reasons, fmt.Sprintf("comparison_page.json product_a_name %q does not match product %q", comparison.ProductAName, product.ProductName))
	}
	if comparison.ProductBName != competitor.ProductName {
		reasons = append(reasons, fmt.Sprintf("comparison_page.json product_b_name %q does not match competitor %q", comparison.ProductBName, competitor.ProductName))
	}
	if comparison.ProductAName == comparison.ProductBName {
		reasons = append(reasons, "comparison_page.json names the same product on both sides")
	}
	if len(strings.TrimSpace(comparison.Verdict)) < minVerdictLength {
		reasons = append(reasons, "comparison_page.json verdict is missing or too short")
	}

	if len(reasons) > 0 {
		return pipeline.Delta{}, &pipeline.QualityGateError{Reasons: reasons}
	}
	return pipeline.Delta{}, nil
}

// reverify runs a document back through its structural schema. Documents were
// validated when produced; the gate re-checks them so a stage bug cannot ship
// a malformed artifact.
func reverify(name string, doc any, s schema.Schema) []string {
	buf, err := json.Marshal(doc)
	if err != nil {
		return []string{fmt.Sprintf("%s: cannot encode for validation: %v", name, err)}
	}
	var data map[string]any
	if err := json.Unmarshal(buf, &data); err != nil {
		return []string{fmt.Sprintf("%s: cannot decode for validation: %v", name, err)}
	}
	if err := schema.Validate(data, s); err != nil {
		return []string{fmt.Sprintf("%s: %v", name, err)}
	}
	return nil
}

// Compile-time interface compliance check.
var _ pipeline.Stage = (*QualityCheck)(nil)
