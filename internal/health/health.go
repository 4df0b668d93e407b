// Package health provides environment health checks for pagecraft. It
// validates that configuration loads, a provider API key is available, and
// the output directory is writable, returning structured reports used by the
// 'pagecraft doctor' command.
package health

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raveheart1/pagecraft/internal/config"
)

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results.
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks() *HealthReport {
	report := &HealthReport{Passed: true}

	cfg, cfgCheck := CheckConfig()
	report.add(cfgCheck)
	if cfg == nil {
		return report
	}

	report.add(CheckAPIKey(cfg))
	report.add(CheckOutputDir(cfg.OutputDir))
	return report
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// CheckConfig verifies configuration loads and validates.
func CheckConfig() (*config.Configuration, CheckResult) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, CheckResult{
			Name:    "configuration",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return cfg, CheckResult{
		Name:    "configuration",
		Passed:  true,
		Message: fmt.Sprintf("provider %s, output %s", cfg.Provider, cfg.OutputDir),
	}
}

// CheckAPIKey verifies a provider API key is configured.
func CheckAPIKey(cfg *config.Configuration) CheckResult {
	if cfg.APIKey == "" {
		envVar := "OPENAI_API_KEY"
		if cfg.Provider == "groq" {
			envVar = "GROQ_API_KEY"
		}
		return CheckResult{
			Name:    "api key",
			Passed:  false,
			Message: fmt.Sprintf("not set; export %s or PAGECRAFT_API_KEY", envVar),
		}
	}
	return CheckResult{
		Name:    "api key",
		Passed:  true,
		Message: fmt.Sprintf("configured for provider %s", cfg.Provider),
	}
}

// CheckOutputDir verifies the output directory is writable, creating nothing
// permanent in the process.
func CheckOutputDir(dir string) CheckResult {
	if dir == "" {
		return CheckResult{Name: "output directory", Passed: false, Message: "output_dir is empty"}
	}

	// If the directory exists, probe with a temp file. If it doesn't, check
	// the nearest existing parent is writable.
	target := dir
	for {
		if info, err := os.Stat(target); err == nil {
			if !info.IsDir() {
				return CheckResult{
					Name:    "output directory",
					Passed:  false,
					Message: fmt.Sprintf("%s exists and is not a directory", target),
				}
			}
			break
		}
		parent := filepath.Dir(target)
		if parent == target {
			break
		}
		target = parent
	}

	probe, err := os.CreateTemp(target, ".pagecraft-doctor-*")
	if err != nil {
		return CheckResult{
			Name:    "output directory",
			Passed:  false,
			Message: fmt.Sprintf("%s is not writable: %v", target, err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{
		Name:    "output directory",
		Passed:  true,
		Message: dir,
	}
}
