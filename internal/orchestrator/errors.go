package orchestrator

import (
	"errors"
	"fmt"

	"github.com/dyluth/moot/pkg/council"
)

// ErrIncompleteFanOut indicates the fan-out join settled with fewer results
// than launched tasks. The runner always awaits every task, so this is a
// fatal invariant violation, not an expected runtime condition.
var ErrIncompleteFanOut = errors.New("fan-out settled with incomplete results")

// PipelineError wraps any stage-terminal failure. The pipeline halts; the
// state accumulated up to the failing stage remains available for
// diagnostics but FinalDecision stays absent.
type PipelineError struct {
	Stage council.Stage
	Cause error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at stage %s: %v", e.Stage, e.Cause)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// DebateStageFailed indicates a participant invocation failed mid-debate.
// The partial transcript up to the failing turn is retained in StageState.
type DebateStageFailed struct {
	Stage council.Stage
	Round int
	Role  council.Role
	Cause error
}

func (e *DebateStageFailed) Error() string {
	return fmt.Sprintf("debate %s failed in round %d at %s: %v", e.Stage, e.Round, e.Role, e.Cause)
}

func (e *DebateStageFailed) Unwrap() error {
	return e.Cause
}

// SequentialStageFailed indicates a single sequential invocation (overview,
// research manager, trader, risk manager) failed.
type SequentialStageFailed struct {
	Stage council.Stage
	Role  council.Role
	Cause error
}

func (e *SequentialStageFailed) Error() string {
	return fmt.Sprintf("stage %s failed at %s: %v", e.Stage, e.Role, e.Cause)
}

func (e *SequentialStageFailed) Unwrap() error {
	return e.Cause
}
