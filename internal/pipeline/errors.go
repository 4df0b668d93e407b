package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/schema"
)

// MissingDependencyError reports a stage invoked before a field it requires
// was produced. This is a stage contract violation, always fatal.
type MissingDependencyError struct {
	Stage StageName
	Field Field
}

// Error implements the error interface.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("stage %s requires field %q which no earlier stage produced", e.Stage, e.Field)
}

// StateConflictError reports a delta that violates the append-only contract:
// either setting a field the stage never declared, or overwriting a field an
// earlier stage already set. Always fatal.
type StateConflictError struct {
	Stage      StageName
	Field      Field
	Undeclared bool
}

// Error implements the error interface.
func (e *StateConflictError) Error() string {
	if e.Undeclared {
		return fmt.Sprintf("stage %s set field %q it does not declare in Produces", e.Stage, e.Field)
	}
	return fmt.Sprintf("stage %s attempted to overwrite field %q already set by an earlier stage", e.Stage, e.Field)
}

// DifferentiationError reports a synthetic competitor that echoes the
// original product. Retryable with an explicit differentiation instruction.
type DifferentiationError struct {
	CompetitorName string
	SameName       bool
}

// Error implements the error interface.
func (e *DifferentiationError) Error() string {
	if e.SameName {
		return fmt.Sprintf("competitor %q has the same name as the original product", e.CompetitorName)
	}
	return fmt.Sprintf("competitor %q differs only in name; at least one other attribute must differ", e.CompetitorName)
}

// QualityGateError reports post-hoc consistency failures across the produced
// documents. Terminal: surfaced with itemized reasons, never retried.
type QualityGateError struct {
	Reasons []string
}

// Error implements the error interface.
func (e *QualityGateError) Error() string {
	return fmt.Sprintf("quality gate failed: %s", strings.Join(e.Reasons, "; "))
}

// Retryable reports whether a stage failure is a content problem worth
// another model attempt. Environment and contract failures are fatal.
func Retryable(err error) bool {
	var violation *schema.Violation
	if errors.As(err, &violation) {
		return true
	}
	var diff *DifferentiationError
	if errors.As(err, &diff) {
		return true
	}
	var provider *llm.ProviderError
	if errors.As(err, &provider) {
		return provider.Kind == llm.Timeout
	}
	return false
}

// ReasonName maps a stage failure to its taxonomy name for diagnostics.
func ReasonName(err error) string {
	var invalid *record.InvalidInputError
	if errors.As(err, &invalid) {
		return "InvalidInput"
	}
	var violation *schema.Violation
	if errors.As(err, &violation) {
		return "SchemaViolation"
	}
	var diff *DifferentiationError
	if errors.As(err, &diff) {
		return "InsufficientDifferentiation"
	}
	var provider *llm.ProviderError
	if errors.As(err, &provider) {
		return provider.Kind.String()
	}
	var missing *MissingDependencyError
	if errors.As(err, &missing) {
		return "MissingDependency"
	}
	var conflict *StateConflictError
	if errors.As(err, &conflict) {
		return "StateConflict"
	}
	var gate *QualityGateError
	if errors.As(err, &gate) {
		return "QualityGateFailed"
	}
	return "Error"
}
