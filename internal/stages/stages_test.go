package stages_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/schema"
	"github.com/raveheart1/pagecraft/internal/stages"
	"github.com/raveheart1/pagecraft/internal/testutil"
)

// buildStages assembles the production stage graph over a scripted client.
func buildStages(client llm.Client, input []byte, reuseQuestions bool) []pipeline.Stage {
	return []pipeline.Stage{
		stages.NewDataExtraction(input),
		stages.NewQuestionGeneration(client),
		stages.NewCompetitorSynthesis(client),
		stages.NewAssembleFAQ(client, reuseQuestions),
		stages.NewAssembleProductPage(client),
		stages.NewAssembleComparison(client),
		stages.NewQualityCheck(),
	}
}

// happyClient scripts a valid response for every generating stage.
func happyClient() *testutil.ScriptedClient {
	return testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, testutil.QuestionSetJSON()).
		Respond(schema.CompetitorSchema.Name, testutil.CompetitorJSON()).
		Respond(schema.FAQPageSchema.Name, testutil.FAQPageJSON()).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.ComparisonPageSchema.Name, testutil.ComparisonPageJSON())
}

// withField returns a copy of a JSON object response with one key replaced.
func withField(t *testing.T, raw, key string, value any) string {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &obj))
	obj[key] = value
	out, err := json.Marshal(obj)
	require.NoError(t, err)
	return string(out)
}

func runPipeline(t *testing.T, client llm.Client, input []byte, opts pipeline.Options) (*pipeline.Result, error) {
	t.Helper()
	orch, err := pipeline.New(buildStages(client, input, false), opts)
	require.NoError(t, err)
	return orch.Run(context.Background())
}

func TestPipelineHappyPath(t *testing.T) {
	t.Parallel()

	client := happyClient()
	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{MaxRetries: 2})
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, res.Status)
	assert.Equal(t, "pending", res.Transitions[0])
	assert.Equal(t, "completed", res.Transitions[len(res.Transitions)-1])
	assert.Len(t, res.Transitions, 9) // pending, one running entry per stage, completed

	require.NotNil(t, res.Documents)
	assert.Equal(t, testutil.ProductName, res.Documents.FAQ.ProductName)
	assert.Equal(t, testutil.ProductName, res.Documents.ProductPage.ProductName)
	assert.Equal(t, testutil.ProductName, res.Documents.Comparison.ProductAName)
	assert.Equal(t, testutil.CompetitorName, res.Documents.Comparison.ProductBName)

	// One model call per generating stage, none for extraction or the gate.
	assert.Len(t, client.Calls(), 5)
	for name, attempts := range res.Attempts {
		assert.Equal(t, 1, attempts, "stage %s", name)
	}
}

func TestQuestionGenerationRetriesShortSet(t *testing.T) {
	t.Parallel()

	short := record.QuestionSet{Questions: testutil.QuestionSet().Questions[:10]}
	shortJSON, err := json.Marshal(short)
	require.NoError(t, err)

	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, string(shortJSON), testutil.QuestionSetJSON()).
		Respond(schema.CompetitorSchema.Name, testutil.CompetitorJSON()).
		Respond(schema.FAQPageSchema.Name, testutil.FAQPageJSON()).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.ComparisonPageSchema.Name, testutil.ComparisonPageJSON())

	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{MaxRetries: 2})
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, res.Status)
	assert.Equal(t, 2, res.Attempts[pipeline.StageQuestionGeneration])

	calls := client.CallsFor(schema.QuestionSetSchema.Name)
	require.Len(t, calls, 2)
	assert.NotContains(t, calls[0].User, "was rejected")
	assert.Contains(t, calls[1].User, "attempt 1 was rejected")
	assert.Contains(t, calls[1].User, "needs at least 15")
}

func TestCompetitorSameNameRetries(t *testing.T) {
	t.Parallel()

	echo := withField(t, testutil.CompetitorJSON(), "product_name", testutil.ProductName)

	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, testutil.QuestionSetJSON()).
		Respond(schema.CompetitorSchema.Name, echo, testutil.CompetitorJSON()).
		Respond(schema.FAQPageSchema.Name, testutil.FAQPageJSON()).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.ComparisonPageSchema.Name, testutil.ComparisonPageJSON())

	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{MaxRetries: 1})
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, res.Status)
	assert.Equal(t, 2, res.Attempts[pipeline.StageCompetitorSynthesis])

	calls := client.CallsFor(schema.CompetitorSchema.Name)
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].User, "same name as the original product")
}

func TestCompetitorMustDifferBeyondName(t *testing.T) {
	t.Parallel()

	// Same attributes as the original, new name only.
	clone := string(testutil.ProductJSON())
	clone = withField(t, clone, "product_name", "GlowBoost Ultra")

	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, testutil.QuestionSetJSON()).
		Respond(schema.CompetitorSchema.Name, clone).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.FAQPageSchema.Name, testutil.FAQPageJSON())

	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{
		MaxRetries: 0,
		Sequential: true,
	})
	require.Error(t, err)

	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Equal(t, pipeline.StageCompetitorSynthesis, res.FailedStage)

	var diff *pipeline.DifferentiationError
	require.ErrorAs(t, res.Reason, &diff)
	assert.False(t, diff.SameName)
	assert.Equal(t, "InsufficientDifferentiation", pipeline.ReasonName(res.Reason))
}

func TestReuseQuestionsSkipsFAQCall(t *testing.T) {
	t.Parallel()

	// No faq_page response scripted: a model call for it would fail the run.
	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, testutil.QuestionSetJSON()).
		Respond(schema.CompetitorSchema.Name, testutil.CompetitorJSON()).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.ComparisonPageSchema.Name, testutil.ComparisonPageJSON())

	orch, err := pipeline.New(buildStages(client, testutil.ProductJSON(), true), pipeline.Options{MaxRetries: 1})
	require.NoError(t, err)

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, res.Status)
	assert.Empty(t, client.CallsFor(schema.FAQPageSchema.Name))

	faq := res.Documents.FAQ
	assert.Equal(t, testutil.ProductName, faq.ProductName)
	assert.Len(t, faq.FAQs, record.MinQuestions)
	assert.Equal(t, testutil.QuestionSet().Questions[0].Question, faq.FAQs[0].Question)
}

func TestReuseQuestionsGroupsFAQByCategory(t *testing.T) {
	t.Parallel()

	// Interleave the categories in the model response; the derived FAQ page
	// must still come out grouped section by section.
	var interleaved record.QuestionSet
	for i := 1; i <= 3; i++ {
		for _, cat := range record.Categories() {
			interleaved.Questions = append(interleaved.Questions, record.Question{
				Question: string(cat) + " question?",
				Answer:   "An answer.",
				Category: cat,
			})
		}
	}
	raw, err := json.Marshal(&interleaved)
	require.NoError(t, err)

	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, string(raw)).
		Respond(schema.CompetitorSchema.Name, testutil.CompetitorJSON()).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.ComparisonPageSchema.Name, testutil.ComparisonPageJSON())

	orch, err := pipeline.New(buildStages(client, testutil.ProductJSON(), true), pipeline.Options{})
	require.NoError(t, err)

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	faq := res.Documents.FAQ
	require.Len(t, faq.FAQs, record.MinQuestions)

	var got []record.QuestionCategory
	for _, item := range faq.FAQs {
		got = append(got, item.Category)
	}
	var want []record.QuestionCategory
	for _, cat := range record.Categories() {
		want = append(want, cat, cat, cat)
	}
	assert.Equal(t, want, got)
}

func TestProviderUnavailableFailsWithoutRetry(t *testing.T) {
	t.Parallel()

	providerErr := &llm.ProviderError{
		Provider: "openai",
		Kind:     llm.Unavailable,
		Err:      errors.New("401 invalid api key"),
	}
	client := testutil.NewScriptedClient().Fail(schema.QuestionSetSchema.Name, providerErr)

	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{
		MaxRetries: 3,
		Sequential: true,
	})
	require.Error(t, err)

	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Equal(t, pipeline.StageQuestionGeneration, res.FailedStage)
	assert.Equal(t, 1, res.Attempts[pipeline.StageQuestionGeneration])

	var got *llm.ProviderError
	require.ErrorAs(t, res.Reason, &got)
	assert.Equal(t, llm.Unavailable, got.Kind)

	// The run stops at the first failure; no downstream stage is reached.
	assert.Empty(t, client.CallsFor(schema.CompetitorSchema.Name))
	assert.Empty(t, client.CallsFor(schema.FAQPageSchema.Name))
	assert.Empty(t, client.CallsFor(schema.ComparisonPageSchema.Name))
}

func TestRetryBudgetExhaustion(t *testing.T) {
	t.Parallel()

	// A single scripted response repeats once the queue is exhausted, so
	// every attempt sees the same rejected output.
	garbage := `{"questions": []}`
	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, garbage)

	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{
		MaxRetries: 2,
		Sequential: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempt(s)")

	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Equal(t, 3, res.Attempts[pipeline.StageQuestionGeneration])
	assert.Len(t, client.CallsFor(schema.QuestionSetSchema.Name), 3)

	// Downstream assemblies never run once the stage gives up.
	assert.Empty(t, client.CallsFor(schema.FAQPageSchema.Name))
	assert.Empty(t, client.CallsFor(schema.ComparisonPageSchema.Name))

	var violation *schema.Violation
	require.ErrorAs(t, res.Reason, &violation)

	last := res.Transitions[len(res.Transitions)-1]
	assert.Equal(t, "failed(QuestionGeneration, SchemaViolation)", last)
}

func TestQualityGateRejectsMismatchedDocuments(t *testing.T) {
	t.Parallel()

	wrongFAQ := withField(t, testutil.FAQPageJSON(), "product_name", "Wrong Serum")

	client := testutil.NewScriptedClient().
		Respond(schema.QuestionSetSchema.Name, testutil.QuestionSetJSON()).
		Respond(schema.CompetitorSchema.Name, testutil.CompetitorJSON()).
		Respond(schema.FAQPageSchema.Name, wrongFAQ).
		Respond(schema.ProductPageSchema.Name, testutil.ProductPageJSON()).
		Respond(schema.ComparisonPageSchema.Name, testutil.ComparisonPageJSON())

	res, err := runPipeline(t, client, testutil.ProductJSON(), pipeline.Options{MaxRetries: 2})
	require.Error(t, err)

	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Equal(t, pipeline.StageQualityCheck, res.FailedStage)
	// Quality failures are terminal, never retried.
	assert.Equal(t, 1, res.Attempts[pipeline.StageQualityCheck])

	var gate *pipeline.QualityGateError
	require.ErrorAs(t, res.Reason, &gate)
	require.Len(t, gate.Reasons, 1)
	assert.Contains(t, gate.Reasons[0], `faq.json product_name "Wrong Serum"`)
}

func TestDataExtractionRejectsBadInput(t *testing.T) {
	t.Parallel()

	bad := []byte(`{"product_name": "GlowBoost", "skin_type": "All"}`)
	client := testutil.NewScriptedClient()

	res, err := runPipeline(t, client, bad, pipeline.Options{MaxRetries: 3})
	require.Error(t, err)

	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Equal(t, pipeline.StageDataExtraction, res.FailedStage)
	assert.Equal(t, 1, res.Attempts[pipeline.StageDataExtraction])

	var invalid *record.InvalidInputError
	require.ErrorAs(t, res.Reason, &invalid)
	assert.Contains(t, invalid.Missing, "key_ingredients")

	// Bad input never reaches the model.
	assert.Empty(t, client.Calls())
}
