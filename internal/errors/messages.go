package errors

import "fmt"

// Common error messages for the pagecraft CLI.
// These templates ensure consistent, actionable error messages.

// MissingInputFile creates an error for a missing product input argument.
func MissingInputFile() *CLIError {
	return NewArgumentErrorWithUsage(
		"product input file is required",
		"pagecraft generate --input <product.json>",
		"Provide a JSON file describing the product",
		"Example: pagecraft generate --input product.json",
	)
}

// InputFileNotFound creates an error when the product input file is missing.
func InputFileNotFound(path string) *CLIError {
	return NewInputError(
		fmt.Sprintf("input file not found: %s", path),
		"Check that the path is correct",
		"The input must be a JSON object describing one product",
	)
}

// InvalidProductInput creates an error for a product record that failed validation.
func InvalidProductInput(err error) *CLIError {
	return WrapWithMessage(err, Input,
		"invalid product input",
		"Required fields: product_name, skin_type, key_ingredients, benefits, how_to_use, price",
		"Field names are case-insensitive; 'Product Name' and 'product_name' both work",
	)
}

// MissingAPIKey creates an error when no provider API key is configured.
func MissingAPIKey(provider string) *CLIError {
	envVar := "OPENAI_API_KEY"
	if provider == "groq" {
		envVar = "GROQ_API_KEY"
	}
	return NewConfigError(
		fmt.Sprintf("no API key configured for provider %q", provider),
		fmt.Sprintf("Set %s or PAGECRAFT_API_KEY in your environment", envVar),
		"Or set api_key in .pagecraft/config.yml",
	)
}

// UnknownProvider creates an error for an unrecognized provider name.
func UnknownProvider(provider string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("unknown provider: %q", provider),
		"Valid providers: openai, groq",
		"Set via --provider flag or PAGECRAFT_PROVIDER env var",
	)
}

// ProviderFailure creates an error when the model backend fails.
func ProviderFailure(err error) *CLIError {
	return WrapWithMessage(err, Provider,
		"model provider request failed",
		"Check your network connection",
		"Verify your API key is valid",
		"Retry, or switch providers with --provider",
	)
}

// RunTimeout creates an error when a run exceeds its time budget.
func RunTimeout(duration string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("run timed out after %s", duration),
		"Increase the timeout: PAGECRAFT_RUN_TIMEOUT=600",
		"Or set run_timeout in .pagecraft/config.yml",
		"Set run_timeout to 0 to disable the timeout",
	)
}

// PipelineFailure creates an error when a stage exhausts its retries.
func PipelineFailure(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"content generation failed",
		"Model output repeatedly failed validation; retrying may help",
		"Increase max_retries in config for flaky models",
		"Try a more capable model with --model",
	)
}

// ConfigFileNotFound creates an error for a missing config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'pagecraft config init' to create default configuration",
		"Or create the file manually with required settings",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML syntax errors",
		"Reset to defaults with: pagecraft config init --force",
	)
}

// OutputDirNotWritable creates an error when documents cannot be written.
func OutputDirNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to output directory: %s", path),
		"Check directory permissions: ls -la "+path,
		"Or choose another directory with --output-dir",
	)
}
