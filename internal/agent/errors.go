package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/dyluth/moot/pkg/council"
)

// FailureKind classifies why an agent invocation failed.
type FailureKind string

const (
	// FailureTimeout indicates the invocation exceeded its deadline
	FailureTimeout FailureKind = "timeout"

	// FailureToolError indicates a tool bound to the agent failed
	FailureToolError FailureKind = "tool-error"

	// FailureModelError indicates the model call itself failed
	FailureModelError FailureKind = "model-error"
)

// Failure reports a single failed agent invocation. The fan-out stage
// recovers from analyst failures locally by substituting a sentinel report;
// every other stage surfaces the failure as a stage-terminal error.
type Failure struct {
	Role council.Role
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("agent %s failed (%s): %v", f.Role, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure wraps an invocation error, classifying context deadline and
// cancellation errors as timeouts. Errors that are already a *Failure pass
// through unchanged so tool-error classification set closer to the source
// survives.
func NewFailure(role council.Role, err error) *Failure {
	var existing *Failure
	if errors.As(err, &existing) {
		return existing
	}

	kind := FailureModelError
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = FailureTimeout
	}

	return &Failure{Role: role, Kind: kind, Err: err}
}
