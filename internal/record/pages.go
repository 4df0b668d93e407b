package record

// FAQItem is one question/answer pair on the FAQ page.
type FAQItem struct {
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Category QuestionCategory `json:"category"`
}

// FAQPage is the faq.json output document.
type FAQPage struct {
	ProductName string    `json:"product_name"`
	FAQs        []FAQItem `json:"faqs"`
}

// Specification is one name/value row in the product page spec table.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductPage is the product_page.json output document.
type ProductPage struct {
	ProductName    string          `json:"product_name"`
	Description    string          `json:"description"`
	Benefits       []string        `json:"benefits"`
	Specifications []Specification `json:"specifications"`
	MarketingCopy  string          `json:"marketing_copy"`
}

// ComparisonRow is one feature row in the comparison table.
// Winner is "A", "B", or "Tie" when the model takes a position.
type ComparisonRow struct {
	Feature  string `json:"feature"`
	ProductA string `json:"product_a"`
	ProductB string `json:"product_b"`
	Winner   string `json:"winner,omitempty"`
}

// ComparisonPage is the comparison_page.json output document.
type ComparisonPage struct {
	ProductAName    string          `json:"product_a_name"`
	ProductBName    string          `json:"product_b_name"`
	Summary         string          `json:"summary,omitempty"`
	ComparisonTable []ComparisonRow `json:"comparison_table"`
	Verdict         string          `json:"verdict"`
}
