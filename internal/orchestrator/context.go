package orchestrator

import (
	"github.com/dyluth/moot/internal/agent"
	"github.com/dyluth/moot/pkg/council"
)

// Context bundle construction.
//
// Two constructors, deliberately separate: analystBundle is the only one that
// carries CompanyDetails. Every stage past the analysts builds its context
// through fullBundle, which has no code path that copies the field - the
// scoping rule is structural, not a runtime check.

// analystBundle builds the context for the overview agent and the stage-1
// analysts: the query plus (for analysts) the stage-0 company details.
// The details are deep-copied so concurrent fan-out tasks share nothing.
func analystBundle(state *council.StageState) agent.ContextBundle {
	bundle := agent.ContextBundle{Query: state.Query}
	if state.CompanyDetails != nil {
		details := *state.CompanyDetails
		bundle.CompanyDetails = &details
	}
	return bundle
}

// fullBundle builds the context for every stage >= 2: the query and all
// accumulated reports, transcripts and plans. CompanyDetails is omitted.
// Composite fields are copied so debate participants appending to the live
// transcript never alias a bundle already handed out.
func fullBundle(state *council.StageState) agent.ContextBundle {
	bundle := agent.ContextBundle{Query: state.Query}

	if len(state.AnalystReports) > 0 {
		bundle.AnalystReports = make(map[council.Role]council.Report, len(state.AnalystReports))
		for role, report := range state.AnalystReports {
			bundle.AnalystReports[role] = report
		}
	}

	if len(state.InvestmentDebate) > 0 {
		bundle.InvestmentDebate = append(council.Transcript{}, state.InvestmentDebate...)
	}
	if len(state.RiskDebate) > 0 {
		bundle.RiskDebate = append(council.Transcript{}, state.RiskDebate...)
	}

	if state.InvestmentPlan != nil {
		plan := *state.InvestmentPlan
		bundle.InvestmentPlan = &plan
	}
	if state.TraderPlan != nil {
		plan := *state.TraderPlan
		bundle.TraderPlan = &plan
	}

	return bundle
}
