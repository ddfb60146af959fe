package agent

import (
	"fmt"
	"strings"

	"github.com/dyluth/moot/pkg/council"
)

// Role-specific system prompts. These set each agent's perspective; the
// accumulated analysis arrives in the user prompt rendered from the
// ContextBundle.
var systemPrompts = map[council.Role]string{
	council.RoleOverview: "You are a company research assistant. Given an investment query, " +
		"identify the company in question and produce a concise factual overview: what it does, " +
		"its main products and markets, and its competitive position. Facts only, no recommendation.",

	council.RoleMarket: "You are a market analyst. Assess price action, trends, volatility and " +
		"technical indicators relevant to the query. Conclude with a short outlook.",
	council.RoleSentiment: "You are a sentiment analyst. Assess investor and social sentiment " +
		"around the company. Conclude with a short outlook.",
	council.RoleNews: "You are a news analyst. Summarize recent news and events material to the " +
		"company and judge their likely impact.",
	council.RoleFundamentals: "You are a fundamentals analyst. Assess financial statements, " +
		"margins, growth and valuation. Conclude with a short outlook.",
	council.RoleShareholder: "You are a shareholder-structure analyst. Assess ownership " +
		"concentration, insider activity and institutional positioning.",
	council.RoleProduct: "You are a product analyst. Assess the product portfolio, pipeline and " +
		"competitive differentiation.",

	council.RoleBull: "You are the bull researcher in an investment debate. Argue the strongest " +
		"case FOR investing, grounded in the analyst reports. Rebut the bear's latest points directly.",
	council.RoleBear: "You are the bear researcher in an investment debate. Argue the strongest " +
		"case AGAINST investing, grounded in the analyst reports. Rebut the bull's latest points directly.",

	council.RoleResearchManager: "You are the research manager. Weigh the analyst reports and the " +
		"bull/bear debate, pick a side, and produce a clear investment plan with rationale.",
	council.RoleTrader: "You are the trader. Turn the investment plan into a concrete trade " +
		"proposal: direction, sizing guidance and entry/exit conditions.",

	council.RoleAggressive: "You are the aggressive (risk-seeking) debater. Argue for maximizing " +
		"upside in the proposed trade, engaging with the other debaters' latest points.",
	council.RoleSafe: "You are the safe (risk-averse) debater. Argue for capital preservation and " +
		"downside protection, engaging with the other debaters' latest points.",
	council.RoleNeutral: "You are the neutral debater. Weigh both risk perspectives and argue for " +
		"a balanced treatment of the proposed trade.",

	council.RoleRiskManager: "You are the risk manager making the final call. Review everything - " +
		"reports, debates, plans - and issue the final decision: approve, adjust or reject the trade, " +
		"with clear reasoning.",
}

// SystemPrompt returns the system prompt for a role.
func SystemPrompt(role council.Role) string {
	return systemPrompts[role]
}

// RenderBundle renders a ContextBundle into the user prompt for one
// invocation. Sections appear only when populated, so an analyst sees just
// the query and company details while the risk manager sees the full record.
func RenderBundle(bundle ContextBundle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Investment query: %s\n", bundle.Query)

	if bundle.CompanyDetails != nil {
		fmt.Fprintf(&b, "\n## Company overview\n%s\n", bundle.CompanyDetails.Summary)
	}

	if len(bundle.AnalystReports) > 0 {
		b.WriteString("\n## Analyst reports\n")
		// Canonical role order keeps rendering deterministic
		for _, role := range council.AnalystRoles() {
			report, ok := bundle.AnalystReports[role]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n%s\n", role, report.Content)
		}
	}

	renderTranscript(&b, "Investment debate", bundle.InvestmentDebate)

	if bundle.InvestmentPlan != nil {
		fmt.Fprintf(&b, "\n## Investment plan\n%s\n", bundle.InvestmentPlan.Content)
	}
	if bundle.TraderPlan != nil {
		fmt.Fprintf(&b, "\n## Trade proposal\n%s\n", bundle.TraderPlan.Content)
	}

	renderTranscript(&b, "Risk debate", bundle.RiskDebate)

	return b.String()
}

func renderTranscript(b *strings.Builder, heading string, transcript council.Transcript) {
	if len(transcript) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n", heading)
	for _, entry := range transcript {
		fmt.Fprintf(b, "\n[round %d] %s: %s\n", entry.Round, entry.Role, entry.Content)
	}
}
