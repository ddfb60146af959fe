package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyluth/moot/pkg/council"
)

func TestSystemPrompt_AllRolesCovered(t *testing.T) {
	roles := []council.Role{
		council.RoleOverview, council.RoleMarket, council.RoleSentiment,
		council.RoleNews, council.RoleFundamentals, council.RoleShareholder,
		council.RoleProduct, council.RoleBull, council.RoleBear,
		council.RoleResearchManager, council.RoleTrader,
		council.RoleAggressive, council.RoleSafe, council.RoleNeutral,
		council.RoleRiskManager,
	}
	for _, role := range roles {
		if SystemPrompt(role) == "" {
			t.Errorf("role %q has no system prompt", role)
		}
	}
}

func TestRenderBundle_AnalystContext(t *testing.T) {
	bundle := ContextBundle{
		Query:          "AAPL",
		CompanyDetails: &council.CompanyDetails{Summary: "Apple Inc. designs consumer electronics."},
	}

	rendered := RenderBundle(bundle)
	assert.Contains(t, rendered, "AAPL")
	assert.Contains(t, rendered, "Company overview")
	assert.Contains(t, rendered, "Apple Inc.")
	assert.NotContains(t, rendered, "Analyst reports")
	assert.NotContains(t, rendered, "debate")
}

func TestRenderBundle_FullContext(t *testing.T) {
	bundle := ContextBundle{
		Query: "AAPL",
		AnalystReports: map[council.Role]council.Report{
			council.RoleMarket: {Role: council.RoleMarket, Content: "uptrend intact"},
			council.RoleNews:   {Role: council.RoleNews, Content: "analyst failed: timeout", Sentinel: true, FailureKind: "timeout"},
		},
		InvestmentDebate: council.Transcript{
			{Role: council.RoleBull, Round: 0, Content: "buy the dip"},
			{Role: council.RoleBear, Round: 0, Content: "valuation stretched"},
		},
		InvestmentPlan: &council.Report{Role: council.RoleResearchManager, Content: "accumulate slowly"},
		TraderPlan:     &council.Report{Role: council.RoleTrader, Content: "buy 100 @ limit"},
		RiskDebate: council.Transcript{
			{Role: council.RoleAggressive, Round: 0, Content: "size up"},
		},
	}

	rendered := RenderBundle(bundle)
	assert.NotContains(t, rendered, "Company overview")
	assert.Contains(t, rendered, "uptrend intact")
	assert.Contains(t, rendered, "analyst failed: timeout", "sentinel text stays visible downstream")
	assert.Contains(t, rendered, "buy the dip")
	assert.Contains(t, rendered, "accumulate slowly")
	assert.Contains(t, rendered, "buy 100 @ limit")
	assert.Contains(t, rendered, "size up")

	// Debate entries carry round and speaker tags
	assert.Contains(t, rendered, "[round 0] bull:")
}

func TestRenderBundle_DeterministicReportOrder(t *testing.T) {
	bundle := ContextBundle{
		Query: "AAPL",
		AnalystReports: map[council.Role]council.Report{
			council.RoleProduct: {Role: council.RoleProduct, Content: "product note"},
			council.RoleMarket:  {Role: council.RoleMarket, Content: "market note"},
		},
	}

	first := RenderBundle(bundle)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RenderBundle(bundle))
	}

	// Market precedes product in canonical order regardless of map iteration
	assert.Less(t, strings.Index(first, "market note"), strings.Index(first, "product note"))
}
