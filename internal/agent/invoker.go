// Package agent defines the invocation boundary between the pipeline and the
// LLM-backed agents. The orchestrator depends only on the Invoker interface;
// agent internals (prompting, model choice, retries) stay behind it.
package agent

import (
	"context"

	"github.com/dyluth/moot/pkg/council"
)

// ContextBundle is the read-only context handed to one agent invocation.
// Bundles are value types built fresh per invocation; CompanyDetails is
// populated only for the overview agent and the stage-1 analysts - context
// construction for every later stage leaves it nil.
type ContextBundle struct {
	Query            string
	CompanyDetails   *council.CompanyDetails
	AnalystReports   map[council.Role]council.Report
	InvestmentDebate council.Transcript
	InvestmentPlan   *council.Report
	TraderPlan       *council.Report
	RiskDebate       council.Transcript
}

// Invoker executes a single agent invocation. Implementations may be slow
// (network + model latency) and must honor ctx cancellation. Invocations are
// not assumed idempotent: the caller never retries a failed invocation.
type Invoker interface {
	Invoke(ctx context.Context, role council.Role, bundle ContextBundle) (council.Report, error)
}
