package record

import (
	"fmt"
	"strings"
)

// QuestionCategory is the closed enumeration of question categories.
type QuestionCategory string

const (
	CategoryInformational QuestionCategory = "Informational"
	CategorySafety        QuestionCategory = "Safety"
	CategoryUsage         QuestionCategory = "Usage"
	CategoryPurchase      QuestionCategory = "Purchase"
	CategoryComparison    QuestionCategory = "Comparison"
)

// Categories lists every valid category in canonical order.
func Categories() []QuestionCategory {
	return []QuestionCategory{
		CategoryInformational,
		CategorySafety,
		CategoryUsage,
		CategoryPurchase,
		CategoryComparison,
	}
}

// CategoryStrings returns the category names for schema enum constraints.
func CategoryStrings() []string {
	cats := Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Question is one generated user question with its drafted answer.
type Question struct {
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Category QuestionCategory `json:"category"`
}

// QuestionSet is the ordered sequence of generated questions.
// Invariant: at least MinQuestions entries with every category represented.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// MinQuestions is the minimum number of entries a valid QuestionSet carries.
const MinQuestions = 15

// Problems checks the QuestionSet invariant and returns every violation
// found, empty when the set is valid. Callers at a model boundary wrap the
// list into a schema violation so retry prompts can feed it back.
func (q *QuestionSet) Problems() []string {
	var problems []string

	if len(q.Questions) < MinQuestions {
		problems = append(problems, fmt.Sprintf("only %d questions, need at least %d", len(q.Questions), MinQuestions))
	}

	seen := make(map[QuestionCategory]bool)
	for i, item := range q.Questions {
		if strings.TrimSpace(item.Question) == "" {
			problems = append(problems, fmt.Sprintf("question %d is empty", i+1))
		}
		if !ValidCategory(string(item.Category)) {
			problems = append(problems, fmt.Sprintf("question %d has unknown category %q", i+1, item.Category))
			continue
		}
		seen[item.Category] = true
	}
	for _, c := range Categories() {
		if !seen[c] {
			problems = append(problems, fmt.Sprintf("category %s has no questions", c))
		}
	}

	return problems
}

// ByCategory groups questions by category, preserving order within each.
func (q *QuestionSet) ByCategory() map[QuestionCategory][]Question {
	out := make(map[QuestionCategory][]Question)
	for _, item := range q.Questions {
		out[item.Category] = append(out[item.Category], item)
	}
	return out
}
