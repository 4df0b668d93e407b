// Package pipeline provides the orchestration core: the append-only RunState
// threaded between stages, the Stage contract with declared field
// dependencies, and the Orchestrator that owns stage ordering, the retry
// policy, and failure reporting.
// Related: internal/stages (concrete stages), internal/llm (model client)
package pipeline

import "context"

// StageName identifies one stage in the pipeline.
type StageName string

const (
	StageDataExtraction      StageName = "DataExtraction"
	StageQuestionGeneration  StageName = "QuestionGeneration"
	StageCompetitorSynthesis StageName = "CompetitorSynthesis"
	StageAssembleFAQ         StageName = "ContentAssembly(FAQ)"
	StageAssembleProductPage StageName = "ContentAssembly(ProductPage)"
	StageAssembleComparison  StageName = "ContentAssembly(ComparisonPage)"
	StageQualityCheck        StageName = "QualityCheck"
)

// Feedback carries the previous attempt's failure into a retry so the stage
// can build a stricter prompt. Zero value means first attempt.
type Feedback struct {
	Attempt int    // attempt number that failed (0 on the first attempt)
	Reason  string // failure description fed back into the next prompt
}

// Stage is one unit of pipeline work. A stage consumes fields it declares in
// Requires, and returns a Delta setting exactly the fields it declares in
// Produces. The orchestrator verifies Requires before invoking Run, so a
// stage may assume its declared inputs are present.
type Stage interface {
	// Name identifies the stage in diagnostics and failure reports.
	Name() StageName
	// Requires lists the RunState fields that must be present before Run.
	Requires() []Field
	// Produces lists the RunState fields the returned Delta may set.
	Produces() []Field
	// Run executes the stage against the current state. Stages that call the
	// model must route raw output through the schema validator before
	// returning. Run must respect ctx cancellation.
	Run(ctx context.Context, state *RunState, fb Feedback) (Delta, error)
}
