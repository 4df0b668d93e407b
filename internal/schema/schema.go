// Package schema provides declarative structural schemas for the records that
// cross a model-call boundary, plus the validator that turns raw model text
// into data the typed layer can trust. Validation is structural only:
// required fields, primitive types, closed enumerations, and array-length
// minimums. Content quality is the quality gate's concern, not this package's.
package schema

import (
	"fmt"
	"strings"

	"github.com/raveheart1/pagecraft/internal/record"
)

// FieldType represents the expected type of a schema field.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
	FieldTypeBool   FieldType = "bool"
	FieldTypeArray  FieldType = "array"
	FieldTypeObject FieldType = "object"
)

// Field defines one field in a record schema.
type Field struct {
	Name        string    // Field name in JSON
	Type        FieldType // Expected type
	Required    bool      // Whether field must be present and non-empty
	Enum        []string  // Valid values for enum fields (optional)
	MinItems    int       // Minimum element count for array fields
	Description string    // Human-readable description, rendered into prompts
	Children    []Field   // Element fields for arrays of objects
}

// Schema represents the complete structural contract for one record type.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

// QuestionSetSchema is the contract for QuestionGeneration output.
var QuestionSetSchema = Schema{
	Name:        "question_set",
	Description: "Categorized user questions generated from product attributes",
	Fields: []Field{
		{
			Name:        "questions",
			Type:        FieldTypeArray,
			Required:    true,
			MinItems:    record.MinQuestions,
			Description: "At least 15 questions covering every category",
			Children: []Field{
				{Name: "question", Type: FieldTypeString, Required: true, Description: "The user question"},
				{Name: "answer", Type: FieldTypeString, Required: true, Description: "Answer based only on the product data"},
				{Name: "category", Type: FieldTypeString, Required: true, Enum: record.CategoryStrings(), Description: "Question category"},
			},
		},
	},
}

// CompetitorSchema is the contract for CompetitorSynthesis output. It mirrors
// the product input attributes; concentration and side_effects stay optional.
var CompetitorSchema = Schema{
	Name:        "synthetic_competitor",
	Description: "A fictional competitor product with the same attribute shape as the original",
	Fields: []Field{
		{Name: "product_name", Type: FieldTypeString, Required: true, Description: "Competitor product name, distinct from the original"},
		{Name: "concentration", Type: FieldTypeString, Required: false, Description: "Active ingredient concentration"},
		{Name: "skin_type", Type: FieldTypeString, Required: true, Description: "Applicable skin types"},
		{Name: "key_ingredients", Type: FieldTypeString, Required: true, Description: "Comma-separated key ingredients"},
		{Name: "benefits", Type: FieldTypeString, Required: true, Description: "Comma-separated benefits"},
		{Name: "how_to_use", Type: FieldTypeString, Required: true, Description: "Usage instructions"},
		{Name: "side_effects", Type: FieldTypeString, Required: false, Description: "Known side effects"},
		{Name: "price", Type: FieldTypeString, Required: true, Description: "Retail price"},
	},
}

// FAQPageSchema is the contract for the faq.json document.
var FAQPageSchema = Schema{
	Name:        "faq_page",
	Description: "FAQ page with at least 15 categorized question/answer pairs",
	Fields: []Field{
		{Name: "product_name", Type: FieldTypeString, Required: true, Description: "Exact name of the original product"},
		{
			Name:        "faqs",
			Type:        FieldTypeArray,
			Required:    true,
			MinItems:    record.MinQuestions,
			Description: "Question/answer pairs",
			Children: []Field{
				{Name: "question", Type: FieldTypeString, Required: true, Description: "The question"},
				{Name: "answer", Type: FieldTypeString, Required: true, Description: "The answer"},
				{Name: "category", Type: FieldTypeString, Required: true, Enum: record.CategoryStrings(), Description: "Question category"},
			},
		},
	},
}

// ProductPageSchema is the contract for the product_page.json document.
var ProductPageSchema = Schema{
	Name:        "product_page",
	Description: "Marketing product page",
	Fields: []Field{
		{Name: "product_name", Type: FieldTypeString, Required: true, Description: "Exact name of the original product"},
		{Name: "description", Type: FieldTypeString, Required: true, Description: "Product description"},
		{
			Name:        "benefits",
			Type:        FieldTypeArray,
			Required:    true,
			MinItems:    2,
			Description: "Key benefit bullet points",
			Children:    []Field{{Name: "", Type: FieldTypeString, Required: true}},
		},
		{
			Name:        "specifications",
			Type:        FieldTypeArray,
			Required:    true,
			MinItems:    2,
			Description: "Name/value specification rows",
			Children: []Field{
				{Name: "name", Type: FieldTypeString, Required: true, Description: "Specification name"},
				{Name: "value", Type: FieldTypeString, Required: true, Description: "Specification value"},
			},
		},
		{Name: "marketing_copy", Type: FieldTypeString, Required: true, Description: "Persuasive marketing paragraph"},
	},
}

// ComparisonPageSchema is the contract for the comparison_page.json document.
var ComparisonPageSchema = Schema{
	Name:        "comparison_page",
	Description: "Side-by-side comparison of the original product and the synthetic competitor",
	Fields: []Field{
		{Name: "product_a_name", Type: FieldTypeString, Required: true, Description: "Exact name of the original product"},
		{Name: "product_b_name", Type: FieldTypeString, Required: true, Description: "Exact name of the competitor"},
		{Name: "summary", Type: FieldTypeString, Required: false, Description: "Short comparison summary"},
		{
			Name:        "comparison_table",
			Type:        FieldTypeArray,
			Required:    true,
			MinItems:    4,
			Description: "Feature rows comparing both products",
			Children: []Field{
				{Name: "feature", Type: FieldTypeString, Required: true, Description: "Compared feature"},
				{Name: "product_a", Type: FieldTypeString, Required: true, Description: "Value for the original product"},
				{Name: "product_b", Type: FieldTypeString, Required: true, Description: "Value for the competitor"},
				{Name: "winner", Type: FieldTypeString, Required: false, Enum: []string{"A", "B", "Tie"}, Description: "Which product wins the row"},
			},
		},
		{Name: "verdict", Type: FieldTypeString, Required: true, Description: "Overall verdict"},
	},
}

// Instruction renders the schema as an output-format instruction for a model
// prompt. The schema constrains by instruction here; enforcement happens in
// Validate after the response arrives.
func (s Schema) Instruction() string {
	var sb strings.Builder
	sb.WriteString("Return ONLY a single JSON object, no markdown fences, no explanation.\n")
	sb.WriteString("The object must have this shape:\n")
	writeFields(&sb, s.Fields, 1)
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		switch f.Type {
		case FieldTypeArray:
			min := ""
			if f.MinItems > 0 {
				min = fmt.Sprintf(", at least %d items", f.MinItems)
			}
			fmt.Fprintf(sb, "%s- %q: array (%s%s)", indent, f.Name, req, min)
			if f.Description != "" {
				fmt.Fprintf(sb, " - %s", f.Description)
			}
			sb.WriteString("\n")
			if len(f.Children) > 0 && f.Children[0].Name != "" {
				fmt.Fprintf(sb, "%s  each item is an object with:\n", indent)
				writeFields(sb, f.Children, depth+2)
			}
		default:
			fmt.Fprintf(sb, "%s- %q: %s (%s)", indent, f.Name, f.Type, req)
			if len(f.Enum) > 0 {
				fmt.Fprintf(sb, ", one of: %s", strings.Join(f.Enum, " | "))
			}
			if f.Description != "" {
				fmt.Fprintf(sb, " - %s", f.Description)
			}
			sb.WriteString("\n")
		}
	}
}
