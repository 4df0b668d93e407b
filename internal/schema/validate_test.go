package schema

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/pagecraft/internal/record"
)

func validFAQData(t *testing.T) map[string]any {
	t.Helper()

	faqs := make([]any, 0, record.MinQuestions)
	cats := record.CategoryStrings()
	for i := 0; i < record.MinQuestions; i++ {
		faqs = append(faqs, map[string]any{
			"question": fmt.Sprintf("Question %d?", i+1),
			"answer":   fmt.Sprintf("Answer %d.", i+1),
			"category": cats[i%len(cats)],
		})
	}
	return map[string]any{
		"product_name": "GlowBoost Vitamin C Serum",
		"faqs":         faqs,
	}
}

func TestValidateCompetitor(t *testing.T) {
	t.Parallel()

	valid := func() map[string]any {
		return map[string]any{
			"product_name":    "RadianceMax Brightening Serum",
			"concentration":   "15% Vitamin C",
			"skin_type":       "oily, combination",
			"key_ingredients": "vitamin c, niacinamide",
			"benefits":        "brightening, smoothing",
			"how_to_use":      "Apply nightly after cleansing.",
			"side_effects":    "mild tingling",
			"price":           "$31.50",
		}
	}

	tests := map[string]struct {
		mutate        func(map[string]any)
		wantMissing   []string
		wantMalformed []string
	}{
		"valid": {
			mutate: func(m map[string]any) {},
		},
		"optional fields absent": {
			mutate: func(m map[string]any) {
				delete(m, "concentration")
				delete(m, "side_effects")
			},
		},
		"missing required field": {
			mutate:      func(m map[string]any) { delete(m, "price") },
			wantMissing: []string{"price"},
		},
		"required field is nil": {
			mutate:      func(m map[string]any) { m["skin_type"] = nil },
			wantMissing: []string{"skin_type"},
		},
		"required field is whitespace": {
			mutate:      func(m map[string]any) { m["benefits"] = "   " },
			wantMissing: []string{"benefits"},
		},
		"wrong type": {
			mutate:        func(m map[string]any) { m["price"] = 24.99 },
			wantMalformed: []string{"price: expected string"},
		},
		"multiple violations": {
			mutate: func(m map[string]any) {
				delete(m, "product_name")
				m["how_to_use"] = true
			},
			wantMissing:   []string{"product_name"},
			wantMalformed: []string{"how_to_use: expected string"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data := valid()
			tc.mutate(data)

			err := Validate(data, CompetitorSchema)
			if len(tc.wantMissing) == 0 && len(tc.wantMalformed) == 0 {
				require.NoError(t, err)
				return
			}

			var violation *Violation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, "synthetic_competitor", violation.Schema)
			assert.Equal(t, tc.wantMissing, violation.MissingFields)
			assert.Equal(t, tc.wantMalformed, violation.MalformedFields)
		})
	}
}

func TestValidateFAQPage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate        func(map[string]any)
		wantMissing   []string
		wantMalformed []string
	}{
		"valid": {
			mutate: func(m map[string]any) {},
		},
		"too few faqs": {
			mutate: func(m map[string]any) {
				m["faqs"] = m["faqs"].([]any)[:10]
			},
			wantMalformed: []string{"faqs: has 10 items, needs at least 15"},
		},
		"faqs not an array": {
			mutate:        func(m map[string]any) { m["faqs"] = "none" },
			wantMalformed: []string{"faqs: expected array"},
		},
		"element missing answer": {
			mutate: func(m map[string]any) {
				item := m["faqs"].([]any)[3].(map[string]any)
				delete(item, "answer")
			},
			wantMissing: []string{"faqs[3].answer"},
		},
		"element category outside enum": {
			mutate: func(m map[string]any) {
				item := m["faqs"].([]any)[2].(map[string]any)
				item["category"] = "Trivia"
			},
			wantMalformed: []string{
				`faqs[2].category: "Trivia" not in {Informational, Safety, Usage, Purchase, Comparison}`,
			},
		},
		"element is not an object": {
			mutate: func(m map[string]any) {
				faqs := m["faqs"].([]any)
				faqs[0] = "what is it?"
			},
			wantMalformed: []string{"faqs[0]: expected object"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data := validFAQData(t)
			tc.mutate(data)

			err := Validate(data, FAQPageSchema)
			if len(tc.wantMissing) == 0 && len(tc.wantMalformed) == 0 {
				require.NoError(t, err)
				return
			}

			var violation *Violation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, "faq_page", violation.Schema)
			assert.Equal(t, tc.wantMissing, violation.MissingFields)
			assert.Equal(t, tc.wantMalformed, violation.MalformedFields)
		})
	}
}

func TestValidateProductPage(t *testing.T) {
	t.Parallel()

	valid := func() map[string]any {
		return map[string]any{
			"product_name": "GlowBoost Vitamin C Serum",
			"description":  "A brightening serum.",
			"benefits":     []any{"brightens skin", "fades dark spots"},
			"specifications": []any{
				map[string]any{"name": "Volume", "value": "30ml"},
				map[string]any{"name": "Concentration", "value": "20%"},
			},
			"marketing_copy": "Glow like never before.",
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, Validate(valid(), ProductPageSchema))
	})

	t.Run("single benefit rejected", func(t *testing.T) {
		t.Parallel()

		data := valid()
		data["benefits"] = []any{"brightens skin"}

		var violation *Violation
		require.ErrorAs(t, Validate(data, ProductPageSchema), &violation)
		assert.Equal(t, []string{"benefits: has 1 items, needs at least 2"}, violation.MalformedFields)
	})

	t.Run("non-string benefit rejected", func(t *testing.T) {
		t.Parallel()

		data := valid()
		data["benefits"] = []any{"brightens skin", 42.0}

		var violation *Violation
		require.ErrorAs(t, Validate(data, ProductPageSchema), &violation)
		assert.Equal(t, []string{"benefits[1]: expected string"}, violation.MalformedFields)
	})

	t.Run("spec row missing value", func(t *testing.T) {
		t.Parallel()

		data := valid()
		data["specifications"] = []any{
			map[string]any{"name": "Volume", "value": "30ml"},
			map[string]any{"name": "Concentration"},
		}

		var violation *Violation
		require.ErrorAs(t, Validate(data, ProductPageSchema), &violation)
		assert.Equal(t, []string{"specifications[1].value"}, violation.MissingFields)
	})
}

func TestValidateComparisonPage(t *testing.T) {
	t.Parallel()

	valid := func() map[string]any {
		rows := make([]any, 0, 4)
		for _, feature := range []string{"Price", "Skin Type", "Ingredients", "Benefits"} {
			rows = append(rows, map[string]any{
				"feature":   feature,
				"product_a": "a value",
				"product_b": "b value",
				"winner":    "A",
			})
		}
		return map[string]any{
			"product_a_name":   "GlowBoost Vitamin C Serum",
			"product_b_name":   "RadianceMax Brightening Serum",
			"comparison_table": rows,
			"verdict":          "GlowBoost wins on price and gentleness.",
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, Validate(valid(), ComparisonPageSchema))
	})

	t.Run("winner may be omitted", func(t *testing.T) {
		t.Parallel()

		data := valid()
		row := data["comparison_table"].([]any)[0].(map[string]any)
		delete(row, "winner")

		require.NoError(t, Validate(data, ComparisonPageSchema))
	})

	t.Run("winner outside enum rejected", func(t *testing.T) {
		t.Parallel()

		data := valid()
		row := data["comparison_table"].([]any)[1].(map[string]any)
		row["winner"] = "Both"

		var violation *Violation
		require.ErrorAs(t, Validate(data, ComparisonPageSchema), &violation)
		assert.Equal(t, []string{`comparison_table[1].winner: "Both" not in {A, B, Tie}`}, violation.MalformedFields)
	})

	t.Run("three rows rejected", func(t *testing.T) {
		t.Parallel()

		data := valid()
		data["comparison_table"] = data["comparison_table"].([]any)[:3]

		var violation *Violation
		require.ErrorAs(t, Validate(data, ComparisonPageSchema), &violation)
		assert.Equal(t, []string{"comparison_table: has 3 items, needs at least 4"}, violation.MalformedFields)
	})
}

func TestValidateDeterministic(t *testing.T) {
	t.Parallel()

	data := validFAQData(t)
	delete(data, "product_name")
	data["faqs"] = data["faqs"].([]any)[:5]

	first := Validate(data, FAQPageSchema)
	require.Error(t, first)
	for i := 0; i < 5; i++ {
		again := Validate(data, FAQPageSchema)
		require.Error(t, again)
		assert.Equal(t, first.Error(), again.Error())
	}
}

func TestViolationError(t *testing.T) {
	t.Parallel()

	v := &Violation{
		Schema:          "faq_page",
		MissingFields:   []string{"product_name"},
		MalformedFields: []string{"faqs: expected array"},
	}
	msg := v.Error()
	assert.Contains(t, msg, "faq_page")
	assert.Contains(t, msg, "missing: product_name")
	assert.Contains(t, msg, "malformed: faqs: expected array")
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("fenced output decodes into typed page", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(validFAQData(t))
		require.NoError(t, err)

		var page record.FAQPage
		require.NoError(t, Parse("```json\n"+string(raw)+"\n```", FAQPageSchema, &page))
		assert.Equal(t, "GlowBoost Vitamin C Serum", page.ProductName)
		assert.Len(t, page.FAQs, record.MinQuestions)
		assert.Equal(t, record.CategoryInformational, page.FAQs[0].Category)
	})

	t.Run("no JSON reports a violation", func(t *testing.T) {
		t.Parallel()

		var page record.FAQPage
		err := Parse("sorry, cannot help with that", FAQPageSchema, &page)

		var violation *Violation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "faq_page", violation.Schema)
		require.Len(t, violation.MalformedFields, 1)
		assert.Contains(t, violation.MalformedFields[0], "no JSON object found")
	})

	t.Run("invalid data reports the violation, not a decode error", func(t *testing.T) {
		t.Parallel()

		data := validFAQData(t)
		data["faqs"] = data["faqs"].([]any)[:2]
		raw, err := json.Marshal(data)
		require.NoError(t, err)

		var page record.FAQPage
		var violation *Violation
		require.ErrorAs(t, Parse(string(raw), FAQPageSchema, &page), &violation)
		assert.Contains(t, violation.MalformedFields[0], "needs at least 15")
	})
}
