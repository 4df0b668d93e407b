// Package prompt renders the model prompts for each generating stage.
// Builders are pure string assembly: they read typed records and produce an
// llm.Prompt; schema instructions are appended by the client.
package prompt

import (
	"fmt"
	"strings"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/record"
)

const systemBase = "You are a marketing content writer for skincare products. " +
	"Base every claim ONLY on the provided product data. Output strict JSON."

// Questions builds the prompt for categorized question generation.
func Questions(p *record.ProductRecord) llm.Prompt {
	var sb strings.Builder
	sb.WriteString("Generate user questions for this product.\n\n")
	writeProduct(&sb, "PRODUCT", p)
	sb.WriteString("\nRequirements:\n")
	fmt.Fprintf(&sb, "- At least %d questions in total.\n", record.MinQuestions)
	fmt.Fprintf(&sb, "- Cover every category at least once: %s.\n", strings.Join(record.CategoryStrings(), ", "))
	sb.WriteString("- Answer each question using only the product data above.\n")

	return llm.Prompt{System: systemBase, User: sb.String()}
}

// Competitor builds the prompt for synthetic competitor generation.
func Competitor(p *record.ProductRecord) llm.Prompt {
	var sb strings.Builder
	sb.WriteString("Create a fictional competitor product in the same category.\n\n")
	writeProduct(&sb, "EXISTING PRODUCT (for reference only)", p)
	sb.WriteString("\nRequirements:\n")
	sb.WriteString("- The competitor is invented, not a real brand.\n")
	fmt.Fprintf(&sb, "- It must have a DIFFERENT name than %q and differ on at least one other attribute.\n", p.ProductName)
	sb.WriteString("- Keep the same attribute shape as the reference product.\n")

	return llm.Prompt{System: systemBase, User: sb.String()}
}

// FAQ builds the prompt for the FAQ page. The question set, when present,
// anchors the page content.
func FAQ(p *record.ProductRecord, questions *record.QuestionSet) llm.Prompt {
	var sb strings.Builder
	sb.WriteString("Generate a FAQ page for this product.\n\n")
	writeProduct(&sb, "PRODUCT", p)

	if questions != nil {
		sb.WriteString("\nUse these pre-generated questions as the basis; refine answers where the product data supports it:\n")
		for _, q := range questions.Questions {
			fmt.Fprintf(&sb, "- [%s] %s\n", q.Category, q.Question)
		}
	}

	sb.WriteString("\nRequirements:\n")
	fmt.Fprintf(&sb, "- At least %d question/answer pairs across all categories.\n", record.MinQuestions)
	fmt.Fprintf(&sb, "- product_name must be exactly %q.\n", p.ProductName)

	return llm.Prompt{System: systemBase, User: sb.String()}
}

// ProductPage builds the prompt for the marketing product page.
func ProductPage(p *record.ProductRecord) llm.Prompt {
	var sb strings.Builder
	sb.WriteString("Generate a marketing product page for this product.\n\n")
	writeProduct(&sb, "PRODUCT", p)
	sb.WriteString("\nRequirements:\n")
	fmt.Fprintf(&sb, "- product_name must be exactly %q.\n", p.ProductName)
	sb.WriteString("- At least 2 benefit bullets and 2 specification rows.\n")
	sb.WriteString("- marketing_copy is one persuasive paragraph, grounded in the product data.\n")

	return llm.Prompt{System: systemBase, User: sb.String()}
}

// Comparison builds the prompt for the comparison page between the original
// product and the synthetic competitor.
func Comparison(a, b *record.ProductRecord) llm.Prompt {
	var sb strings.Builder
	sb.WriteString("Generate a comparison page for these two products.\n\n")
	writeProduct(&sb, "PRODUCT A (original)", a)
	sb.WriteString("\n")
	writeProduct(&sb, "PRODUCT B (competitor)", b)
	sb.WriteString("\nRequirements:\n")
	fmt.Fprintf(&sb, "- product_a_name must be exactly %q and product_b_name exactly %q.\n", a.ProductName, b.ProductName)
	sb.WriteString("- At least 4 comparison rows covering concrete attributes (price, concentration, ingredients, usage).\n")
	sb.WriteString("- End with a fair verdict.\n")

	return llm.Prompt{System: systemBase, User: sb.String()}
}

// WithFeedback appends the previous attempt's failure to a prompt so the
// retry is stricter than the original request.
func WithFeedback(p llm.Prompt, attempt int, reason string) llm.Prompt {
	if reason == "" {
		return p
	}
	var sb strings.Builder
	sb.WriteString(p.User)
	fmt.Fprintf(&sb, "\n\nIMPORTANT: attempt %d was rejected: %s\n", attempt, reason)
	sb.WriteString("Correct every listed problem. Respond with the JSON object only.")
	return llm.Prompt{System: p.System, User: sb.String()}
}

// writeProduct renders a product's attributes as a labeled block.
func writeProduct(sb *strings.Builder, label string, p *record.ProductRecord) {
	fmt.Fprintf(sb, "%s:\n", label)
	fmt.Fprintf(sb, "- Name: %s\n", p.ProductName)
	if p.Concentration != "" {
		fmt.Fprintf(sb, "- Concentration: %s\n", p.Concentration)
	}
	fmt.Fprintf(sb, "- Skin Type: %s\n", p.SkinType)
	fmt.Fprintf(sb, "- Key Ingredients: %s\n", p.KeyIngredients)
	fmt.Fprintf(sb, "- Benefits: %s\n", p.Benefits)
	fmt.Fprintf(sb, "- How to Use: %s\n", p.HowToUse)
	if p.SideEffects != "" {
		fmt.Fprintf(sb, "- Side Effects: %s\n", p.SideEffects)
	}
	fmt.Fprintf(sb, "- Price: %s\n", p.Price)
}
