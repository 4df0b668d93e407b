package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/raveheart1/pagecraft/internal/record"
)

// Fixture product used across the test suite.
const (
	ProductName    = "GlowBoost Vitamin C Serum"
	CompetitorName = "RadianceMax Brightening Serum"
)

// ProductJSON returns a valid product input document.
func ProductJSON() []byte {
	return mustJSON(map[string]any{
		"product_name":    ProductName,
		"concentration":   "15% L-ascorbic acid",
		"skin_type":       "All skin types",
		"key_ingredients": "Vitamin C, Hyaluronic Acid, Vitamin E",
		"benefits":        "Brightening, Anti-aging, Hydration",
		"how_to_use":      "Apply 3-4 drops to clean skin every morning before sunscreen",
		"side_effects":    "Mild tingling on sensitive skin",
		"price":           "$24.99",
	})
}

// Product returns the parsed fixture product.
func Product() *record.ProductRecord {
	p, err := record.ParseProductJSON(ProductJSON())
	if err != nil {
		panic(fmt.Sprintf("fixture product invalid: %v", err))
	}
	return p
}

// CompetitorJSON returns a model response for competitor synthesis. The
// competitor differs from the fixture product in several attributes.
func CompetitorJSON() string {
	return string(mustJSON(map[string]any{
		"product_name":    CompetitorName,
		"concentration":   "10% sodium ascorbyl phosphate",
		"skin_type":       "Oily and combination skin",
		"key_ingredients": "Vitamin C, Niacinamide, Green Tea Extract",
		"benefits":        "Brightening, Oil control",
		"how_to_use":      "Apply 2-3 drops in the evening after cleansing",
		"side_effects":    "None reported",
		"price":           "$31.50",
	}))
}

// QuestionSet returns a valid fixture question set: three questions in every
// category.
func QuestionSet() *record.QuestionSet {
	var qs record.QuestionSet
	for _, cat := range record.Categories() {
		for i := 1; i <= 3; i++ {
			qs.Questions = append(qs.Questions, record.Question{
				Question: fmt.Sprintf("%s question %d about %s?", cat, i, ProductName),
				Answer:   fmt.Sprintf("%s answer %d based on the product data.", cat, i),
				Category: cat,
			})
		}
	}
	return &qs
}

// QuestionSetJSON returns the fixture question set as a model response.
func QuestionSetJSON() string {
	return string(mustJSON(QuestionSet()))
}

// FAQPage returns a valid fixture FAQ page derived from the question set.
func FAQPage() *record.FAQPage {
	page := &record.FAQPage{ProductName: ProductName}
	for _, q := range QuestionSet().Questions {
		page.FAQs = append(page.FAQs, record.FAQItem{
			Question: q.Question,
			Answer:   q.Answer,
			Category: q.Category,
		})
	}
	return page
}

// FAQPageJSON returns the fixture FAQ page as a model response.
func FAQPageJSON() string {
	return string(mustJSON(FAQPage()))
}

// ProductPage returns a valid fixture product page.
func ProductPage() *record.ProductPage {
	return &record.ProductPage{
		ProductName: ProductName,
		Description: "A lightweight vitamin C serum that brightens and hydrates.",
		Benefits:    []string{"Visibly brightens skin tone", "Reduces fine lines", "Locks in hydration"},
		Specifications: []record.Specification{
			{Name: "Concentration", Value: "15% L-ascorbic acid"},
			{Name: "Skin Type", Value: "All skin types"},
			{Name: "Price", Value: "$24.99"},
		},
		MarketingCopy: "Wake up to radiant skin with GlowBoost, the daily serum that works as hard as you do.",
	}
}

// ProductPageJSON returns the fixture product page as a model response.
func ProductPageJSON() string {
	return string(mustJSON(ProductPage()))
}

// ComparisonPage returns a valid fixture comparison page.
func ComparisonPage() *record.ComparisonPage {
	return &record.ComparisonPage{
		ProductAName: ProductName,
		ProductBName: CompetitorName,
		Summary:      "Two vitamin C serums with different strengths and targets.",
		ComparisonTable: []record.ComparisonRow{
			{Feature: "Concentration", ProductA: "15% L-ascorbic acid", ProductB: "10% sodium ascorbyl phosphate", Winner: "A"},
			{Feature: "Skin Type", ProductA: "All skin types", ProductB: "Oily and combination skin", Winner: "A"},
			{Feature: "Price", ProductA: "$24.99", ProductB: "$31.50", Winner: "A"},
			{Feature: "Oil Control", ProductA: "Not a focus", ProductB: "Dedicated niacinamide blend", Winner: "B"},
		},
		Verdict: "GlowBoost wins on strength, versatility, and price; RadianceMax suits oily skin.",
	}
}

// ComparisonPageJSON returns the fixture comparison page as a model response.
func ComparisonPageJSON() string {
	return string(mustJSON(ComparisonPage()))
}

func mustJSON(v any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fixture marshal: %v", err))
	}
	return out
}
