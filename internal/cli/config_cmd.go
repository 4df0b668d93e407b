package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/pagecraft/internal/config"
	clierrors "github.com/raveheart1/pagecraft/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pagecraft configuration",
	Long: `Manage pagecraft configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (PAGECRAFT_*)
  2. Project config (.pagecraft/config.yml)
  3. User config (~/.config/pagecraft/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  pagecraft config show

  # Set a configuration value in the project config
  pagecraft config set max_retries 5

  # List all configuration keys
  pagecraft config keys

  # Write a commented default config
  pagecraft config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Configuration)}
		}
		// api_key is masked; everything else prints as YAML.
		shown := *cfg
		if shown.APIKey != "" {
			shown.APIKey = "********"
		}
		out, err := yaml.Marshal(map[string]interface{}{
			"provider":        shown.Provider,
			"model":           shown.Model,
			"api_key":         shown.APIKey,
			"base_url":        shown.BaseURL,
			"temperature":     shown.Temperature,
			"max_tokens":      shown.MaxTokens,
			"max_retries":     shown.MaxRetries,
			"run_timeout":     shown.RunTimeout,
			"reuse_questions": shown.ReuseQuestions,
			"sequential":      shown.Sequential,
			"output_dir":      shown.OutputDir,
		})
		if err != nil {
			return err
		}
		cmd.Print(string(out))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.GetKeySchema(args[0]); err != nil {
			return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Argument)}
		}
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Configuration)}
		}
		cmd.Println(configValue(cfg, args[0]))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the project config",
	Long: `Set writes one key into .pagecraft/config.yml (or the user config
with --user), creating the file if needed. Values are validated against
the key's declared type before writing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := config.ProjectConfigPath()
		if user, _ := cmd.Flags().GetBool("user"); user {
			var err error
			target, err = config.UserConfigPath()
			if err != nil {
				return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Configuration)}
			}
		}
		if err := config.SetConfigValue(target, args[0], args[1]); err != nil {
			return &exitError{code: ExitInvalidArguments, err: clierrors.Wrap(err, clierrors.Configuration)}
		}
		cmd.Printf("Set %s = %s in %s\n", args[0], args[1], target)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys with their types and defaults",
	Run: func(cmd *cobra.Command, args []string) {
		bold := color.New(color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			cmd.Printf("%s (%s, default: %v)\n    %s\n",
				bold(schema.Path), schema.Type, schema.Default, dim(schema.Description))
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		target := config.ProjectConfigPath()

		if _, err := os.Stat(target); err == nil && !force {
			return &exitError{code: ExitInvalidArguments, err: clierrors.NewConfigError(
				fmt.Sprintf("config already exists at %s", target),
				"Use --force to overwrite it",
			)}
		}
		if err := os.MkdirAll(config.ProjectConfigDir(), 0o755); err != nil {
			return &exitError{code: ExitValidationFailed, err: clierrors.Wrap(err, clierrors.Runtime)}
		}
		if err := os.WriteFile(target, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return &exitError{code: ExitValidationFailed, err: clierrors.Wrap(err, clierrors.Runtime)}
		}
		cmd.Printf("Wrote default configuration to %s\n", target)
		return nil
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert JSON config files to YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		user, _ := cmd.Flags().GetBool("user")

		var result *config.MigrationResult
		var err error
		if user {
			result, err = config.MigrateUserConfig(dryRun)
		} else {
			result, err = config.MigrateProjectConfig(dryRun)
		}
		if err != nil {
			return &exitError{code: ExitValidationFailed, err: clierrors.Wrap(err, clierrors.Configuration)}
		}
		cmd.Println(result.Message)
		return nil
	},
}

// configValue maps a registry key to its loaded value.
func configValue(cfg *config.Configuration, key string) interface{} {
	switch key {
	case "provider":
		return cfg.Provider
	case "model":
		return cfg.Model
	case "api_key":
		if cfg.APIKey != "" {
			return "********"
		}
		return ""
	case "base_url":
		return cfg.BaseURL
	case "temperature":
		return cfg.Temperature
	case "max_tokens":
		return cfg.MaxTokens
	case "max_retries":
		return cfg.MaxRetries
	case "run_timeout":
		return cfg.RunTimeout
	case "reuse_questions":
		return cfg.ReuseQuestions
	case "sequential":
		return cfg.Sequential
	case "output_dir":
		return cfg.OutputDir
	default:
		return nil
	}
}

func init() {
	configShowCmd.Flags().String("config", "", "Path to a config file")
	configGetCmd.Flags().String("config", "", "Path to a config file")
	configSetCmd.Flags().Bool("user", false, "Write to the user config instead of the project config")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configMigrateCmd.Flags().Bool("dry-run", false, "Report the planned migration without writing")
	configMigrateCmd.Flags().Bool("user", false, "Migrate the user config instead of the project config")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}
