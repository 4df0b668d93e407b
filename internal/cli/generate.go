package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raveheart1/pagecraft/internal/config"
	clierrors "github.com/raveheart1/pagecraft/internal/errors"
	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/output"
	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/progress"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/stages"
	"github.com/raveheart1/pagecraft/internal/writer"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate FAQ, product, and comparison pages for a product",
	Long: `Generate runs the full content pipeline for one product record:

  1. DataExtraction       parse and validate the input record
  2. QuestionGeneration   15+ customer questions across five categories
  3. CompetitorSynthesis  a plausible, distinct competitor product
  4. ContentAssembly      FAQ, product page, and comparison page
  5. QualityCheck         schema and cross-document consistency gate

Stages with independent inputs run in parallel. Stages whose model output
fails validation are retried with feedback, up to max_retries extra
attempts. On success three JSON documents are written to the output
directory; a failed run writes nothing.`,
	Example: `  # Generate pages for a product
  pagecraft generate --input product.json

  # Use Groq and a custom output directory
  pagecraft generate -i product.json -o ./pages --provider groq

  # Build the FAQ from the generated questions without another model call
  pagecraft generate -i product.json --reuse-questions`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("input", "i", "", "Path to the product JSON file (required)")
	generateCmd.Flags().StringP("output-dir", "o", "", "Directory for generated documents")
	generateCmd.Flags().String("provider", "", "Model backend: openai | groq")
	generateCmd.Flags().String("model", "", "Model identifier override")
	generateCmd.Flags().Int("max-retries", 0, "Extra attempts per stage after the first")
	generateCmd.Flags().Int("timeout", 0, "Whole-run timeout in seconds (0 = no timeout)")
	generateCmd.Flags().Bool("reuse-questions", false, "Build the FAQ directly from the generated question set")
	generateCmd.Flags().Bool("sequential", false, "Disable parallel execution of independent stages")
	generateCmd.Flags().String("config", "", "Path to a config file")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return &exitError{code: ExitInvalidArguments, err: clierrors.MissingInputFile()}
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Configuration)}
	}
	applyGenerateFlags(cmd, cfg)

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return &exitError{code: ExitValidationFailed, err: clierrors.InputFileNotFound(inputPath)}
	}

	// Validate the record up front so a bad input fails before any model
	// call. The extraction stage re-parses it inside the run.
	if _, err := record.ParseProductJSON(input); err != nil {
		return &exitError{code: ExitValidationFailed, err: clierrors.InvalidProductInput(err)}
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	reporter := progress.NewReporter(cmd.OutOrStdout())
	defer reporter.Stop()

	orch, err := pipeline.New(buildStages(input, client, cfg), pipeline.Options{
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.Timeout(),
		Sequential: cfg.Sequential,
		Observer:   reporter,
	})
	if err != nil {
		return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Runtime)}
	}

	result, runErr := orch.Run(cmd.Context())
	reporter.Stop()

	if runErr != nil {
		return generateFailure(cmd, cfg, result, runErr)
	}

	w := writer.New(cfg.OutputDir)
	paths, err := w.WriteDocuments(*result.Documents)
	if err != nil {
		return &exitError{code: ExitValidationFailed, err: clierrors.OutputDirNotWritable(cfg.OutputDir, err)}
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		output.PrintStageSuccess(out, p)
	}
	output.PrintRunSummary(out, result.RunID, fmt.Sprintf("%s in %s", result.Status, result.Duration.Round(time.Millisecond)))
	output.PrintRunFooter(out)
	return nil
}

// applyGenerateFlags overrides config values with explicitly set flags.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Configuration) {
	if v, _ := cmd.Flags().GetString("output-dir"); cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("provider"); cmd.Flags().Changed("provider") {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); cmd.Flags().Changed("model") {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetInt("max-retries"); cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = v
	}
	if v, _ := cmd.Flags().GetInt("timeout"); cmd.Flags().Changed("timeout") {
		cfg.RunTimeout = v
	}
	if v, _ := cmd.Flags().GetBool("reuse-questions"); cmd.Flags().Changed("reuse-questions") {
		cfg.ReuseQuestions = v
	}
	if v, _ := cmd.Flags().GetBool("sequential"); cmd.Flags().Changed("sequential") {
		cfg.Sequential = v
	}
}

// buildClient constructs the model client from configuration.
func buildClient(cfg *config.Configuration) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, &exitError{code: ExitInvalidArguments, err: clierrors.MissingAPIKey(cfg.Provider)}
	}
	client, err := llm.New(llm.Settings{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, &exitError{code: ExitInvalidArguments, err: clierrors.UnknownProvider(cfg.Provider)}
	}
	return client, nil
}

// buildStages assembles the pipeline stage list in declaration order.
func buildStages(input []byte, client llm.Client, cfg *config.Configuration) []pipeline.Stage {
	return []pipeline.Stage{
		stages.NewDataExtraction(input),
		stages.NewQuestionGeneration(client),
		stages.NewCompetitorSynthesis(client),
		stages.NewAssembleFAQ(client, cfg.ReuseQuestions),
		stages.NewAssembleProductPage(client),
		stages.NewAssembleComparison(client),
		stages.NewQualityCheck(),
	}
}

// generateFailure maps a failed run onto an exit code and structured error.
func generateFailure(cmd *cobra.Command, cfg *config.Configuration, result *pipeline.Result, runErr error) error {
	if result != nil && result.FailedStage != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s failed at %s (%s)\n", result.RunID, result.FailedStage, result.Reason)
	}

	var provErr *llm.ProviderError
	if errors.As(runErr, &provErr) {
		if provErr.Kind == llm.Timeout {
			return &exitError{code: ExitTimeout, err: clierrors.ProviderFailure(runErr)}
		}
		return &exitError{code: ExitProviderError, err: clierrors.ProviderFailure(runErr)}
	}

	if errors.Is(runErr, context.DeadlineExceeded) {
		return &exitError{code: ExitTimeout, err: clierrors.RunTimeout(cfg.Timeout().String())}
	}

	var invalid *record.InvalidInputError
	if errors.As(runErr, &invalid) {
		return &exitError{code: ExitValidationFailed, err: clierrors.InvalidProductInput(runErr)}
	}

	if pipeline.Retryable(runErr) {
		// A retryable reason that still surfaced means the budget ran out.
		return &exitError{code: ExitRetryExhausted, err: clierrors.PipelineFailure(runErr)}
	}

	return &exitError{code: ExitValidationFailed, err: clierrors.PipelineFailure(runErr)}
}
