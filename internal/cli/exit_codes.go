package cli

// Exit codes for the pagecraft CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates the input or output failed validation
	ExitValidationFailed = 1

	// ExitRetryExhausted indicates a stage exhausted its retry budget
	ExitRetryExhausted = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitProviderError indicates the model provider was unreachable
	ExitProviderError = 4

	// ExitTimeout indicates the run timed out
	ExitTimeout = 5
)
