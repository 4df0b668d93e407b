package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Pagecraft Configuration
# See 'pagecraft config -h' for commands

# Model backend settings
provider: openai          # Model backend: openai | groq
model: ""                 # Model override (empty = provider default)
api_key: ""               # API key (prefer PAGECRAFT_API_KEY or OPENAI_API_KEY/GROQ_API_KEY)
base_url: ""              # Endpoint override, e.g. for proxies
temperature: 0.7          # Sampling temperature (0.0-2.0)
max_tokens: 0             # Completion cap (0 = provider default)

# Pipeline settings
max_retries: 2            # Extra attempts per stage after the first (0-10)
run_timeout: 300          # Whole-run timeout in seconds (0 = no timeout)
reuse_questions: false    # Build FAQ directly from generated questions, no extra model call
sequential: false         # Disable parallel execution of independent stages
output_dir: ./output      # Directory for generated JSON documents
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"provider":    "openai",
		"model":       "",
		"api_key":     "",
		"base_url":    "",
		"temperature": 0.7,
		"max_tokens":  0,
		// max_retries: extra attempts per stage after the first one.
		"max_retries": 2,
		// run_timeout: seconds for the whole run. Five minutes covers the
		// six model calls with room for retries.
		"run_timeout":     300,
		"reuse_questions": false,
		"sequential":      false,
		"output_dir":      "./output",
	}
}
