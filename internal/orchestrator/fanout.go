package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dyluth/moot/internal/agent"
	"github.com/dyluth/moot/pkg/council"
)

// runAnalysts executes the stage-1 fan-out: one concurrent invocation per
// enabled analyst, each against its own deep copy of {query, companyDetails},
// merged into AnalystReports only after every task has settled.
//
// Partial-failure policy: a failed analyst yields a sentinel report naming
// the failure kind; the stage proceeds as long as all N tasks settle. There
// is no fail-fast cross-cancellation - every goroutine returns nil so a
// failure never cancels its siblings.
func (p *Pipeline) runAnalysts(ctx context.Context, state *council.StageState) error {
	roles := p.cfg.EnabledAnalysts
	results := make([]council.Report, len(roles))
	settled := make([]bool, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		// Per-task snapshot: no shared mutable state during execution
		bundle := analystBundle(state)

		g.Go(func() error {
			report, err := p.invoker.Invoke(gctx, role, bundle)
			if err != nil {
				failure := agent.NewFailure(role, err)
				p.logEvent("analyst_failed", map[string]interface{}{
					"session_id": state.SessionID,
					"role":       string(role),
					"kind":       string(failure.Kind),
					"error":      failure.Err.Error(),
				})
				report = sentinelReport(failure)
			}

			// Each task owns exactly one result slot
			results[i] = report
			settled[i] = true
			return nil
		})
	}

	// Join barrier: all N settle before any merge
	if err := g.Wait(); err != nil {
		return err
	}

	for _, ok := range settled {
		if !ok {
			return ErrIncompleteFanOut
		}
	}

	// Commutative merge keyed by role; arrival order is irrelevant
	reports := make(map[council.Role]council.Report, len(roles))
	for i, role := range roles {
		report := results[i]
		report.Role = role
		report.CreatedAtMs = p.now()
		reports[role] = report
	}
	state.AnalystReports = reports

	return nil
}

// sentinelReport builds the placeholder report substituted for a failed
// analyst. The text is deliberately visible to downstream agents so they can
// weigh the missing perspective.
func sentinelReport(failure *agent.Failure) council.Report {
	return council.Report{
		Role:        failure.Role,
		Content:     fmt.Sprintf("No report available: the %s analyst failed (%s).", failure.Role, failure.Kind),
		Sentinel:    true,
		FailureKind: string(failure.Kind),
	}
}
