package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/moot/pkg/council"
)

func completedState() *council.StageState {
	return &council.StageState{
		SessionID:   uuid.New().String(),
		Query:       "should we buy ACME?\nsecond line detail",
		StartedAtMs: 1700000000000,
		CompanyDetails: &council.CompanyDetails{
			Summary:      "ACME makes anvils.",
			ProducedAtMs: 1700000000001,
		},
		AnalystReports: map[council.Role]council.Report{
			council.RoleMarket: {
				Role: council.RoleMarket, Content: "market looks strong", CreatedAtMs: 1700000000002,
			},
			council.RoleNews: {
				Role: council.RoleNews, Content: "No report available: the news analyst failed (timeout).",
				Sentinel: true, FailureKind: "timeout", CreatedAtMs: 1700000000002,
			},
		},
		InvestmentDebate: council.Transcript{
			{Role: council.RoleBull, Round: 0, Content: "buy it", CreatedAtMs: 1700000000003},
			{Role: council.RoleBear, Round: 0, Content: "too risky", CreatedAtMs: 1700000000004},
		},
		InvestmentPlan: &council.Report{
			Role: council.RoleResearchManager, Content: "cautious buy", CreatedAtMs: 1700000000005,
		},
		TraderPlan: &council.Report{
			Role: council.RoleTrader, Content: "scale in over 3 weeks", CreatedAtMs: 1700000000006,
		},
		RiskDebate: council.Transcript{
			{Role: council.RoleAggressive, Round: 0, Content: "go bigger", CreatedAtMs: 1700000000007},
		},
		FinalDecision: &council.Report{
			Role: council.RoleRiskManager, Content: "approved with position cap", CreatedAtMs: 1700000000008,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"md", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"markdown", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	state := completedState()
	out, err := Render(state, FormatMarkdown)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Investment analysis: should we buy ACME?\n"),
		"title should use first line of query")
	assert.Contains(t, out, state.SessionID)
	assert.Contains(t, out, "stage: done")

	assert.Contains(t, out, "## Company overview")
	assert.Contains(t, out, "ACME makes anvils.")

	assert.Contains(t, out, "### Market")
	assert.Contains(t, out, "market looks strong")

	// Sentinel reports are flagged, not rendered as analysis.
	assert.Contains(t, out, "### News")
	assert.Contains(t, out, "> Unavailable (timeout):")

	assert.Contains(t, out, "## Investment debate")
	assert.Contains(t, out, "**[round 0] bull:** buy it")
	assert.Contains(t, out, "**[round 0] bear:** too risky")

	assert.Contains(t, out, "## Investment plan")
	assert.Contains(t, out, "cautious buy")
	assert.Contains(t, out, "## Trader plan")
	assert.Contains(t, out, "scale in over 3 weeks")
	assert.Contains(t, out, "## Risk debate")
	assert.Contains(t, out, "## Final decision")
	assert.Contains(t, out, "approved with position cap")

	// Analyst sections appear in canonical order.
	assert.Less(t, strings.Index(out, "### Market"), strings.Index(out, "### News"))
}

func TestRenderMarkdown_PartialSession(t *testing.T) {
	state := &council.StageState{
		SessionID:   uuid.New().String(),
		Query:       "should we buy ACME?",
		StartedAtMs: 1700000000000,
		CompanyDetails: &council.CompanyDetails{
			Summary: "ACME makes anvils.",
		},
		AnalystReports: map[council.Role]council.Report{},
	}

	out, err := Render(state, FormatMarkdown)
	require.NoError(t, err)

	assert.Contains(t, out, "stage: analysts")
	assert.Contains(t, out, "## Company overview")
	assert.NotContains(t, out, "## Analyst reports")
	assert.NotContains(t, out, "## Investment debate")
	assert.NotContains(t, out, "## Final decision")
}

func TestRenderJSON(t *testing.T) {
	state := completedState()
	out, err := Render(state, FormatJSON)
	require.NoError(t, err)

	var decoded council.StageState
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, state.SessionID, decoded.SessionID)
	assert.Equal(t, state.Query, decoded.Query)
	assert.Len(t, decoded.AnalystReports, 2)
	assert.Equal(t, council.StageDone, decoded.Stage())
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(completedState(), Format("xml"))
	assert.Error(t, err)
}

func TestRoleHeading(t *testing.T) {
	tests := []struct {
		role council.Role
		want string
	}{
		{council.RoleMarket, "Market"},
		{council.RoleResearchManager, "Research manager"},
		{council.RoleRiskManager, "Risk manager"},
	}
	for _, tt := range tests {
		if got := roleHeading(tt.role); got != tt.want {
			t.Errorf("roleHeading(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
