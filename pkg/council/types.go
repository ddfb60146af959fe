// Package council provides type-safe Go definitions and Redis schema patterns
// for the Moot analysis council. A council run threads a single StageState
// record through the fixed five-stage pipeline (overview → analysts →
// investment debate → management → risk debate); the types here are shared by
// the orchestrator, the CLI, and the session store.
//
// All Redis keys and channels are namespaced by instance name to enable
// multiple Moot instances to safely coexist on a single Redis server.
package council

import (
	"fmt"

	"github.com/google/uuid"
)

// Role identifies an agent in the pipeline. The role set is closed: the
// orchestrator dispatches on roles, never on concrete agent internals.
type Role string

const (
	// RoleOverview produces the company details snapshot in stage 0
	RoleOverview Role = "overview"

	// Stage-1 analyst roles. Each enabled analyst runs concurrently against
	// an isolated copy of the stage-0 output.
	RoleMarket       Role = "market"
	RoleSentiment    Role = "sentiment"
	RoleNews         Role = "news"
	RoleFundamentals Role = "fundamentals"
	RoleShareholder  Role = "shareholder"
	RoleProduct      Role = "product"

	// Investment debate participants (stage 2)
	RoleBull Role = "bull"
	RoleBear Role = "bear"

	// Management roles (stage 3)
	RoleResearchManager Role = "research-manager"
	RoleTrader          Role = "trader"

	// Risk debate participants and the final decision maker (stage 4)
	RoleAggressive  Role = "aggressive"
	RoleSafe        Role = "safe"
	RoleNeutral     Role = "neutral"
	RoleRiskManager Role = "risk-manager"
)

// AnalystRoles returns the canonical ordered list of stage-1 analyst roles.
// Configuration may enable any subset; order here only fixes display order.
func AnalystRoles() []Role {
	return []Role{
		RoleMarket, RoleSentiment, RoleNews,
		RoleFundamentals, RoleShareholder, RoleProduct,
	}
}

// IsAnalyst reports whether the role is a stage-1 analyst.
func (r Role) IsAnalyst() bool {
	switch r {
	case RoleMarket, RoleSentiment, RoleNews,
		RoleFundamentals, RoleShareholder, RoleProduct:
		return true
	default:
		return false
	}
}

// Validate checks if the Role is a valid enum value.
func (r Role) Validate() error {
	switch r {
	case RoleOverview,
		RoleMarket, RoleSentiment, RoleNews,
		RoleFundamentals, RoleShareholder, RoleProduct,
		RoleBull, RoleBear,
		RoleResearchManager, RoleTrader,
		RoleAggressive, RoleSafe, RoleNeutral, RoleRiskManager:
		return nil
	default:
		return fmt.Errorf("unknown role: %q", r)
	}
}

// Stage identifies one macro-step of the fixed pipeline.
type Stage string

const (
	// StageOverview is the single company-overview invocation
	StageOverview Stage = "overview"

	// StageAnalysts is the concurrent analyst fan-out
	StageAnalysts Stage = "analysts"

	// StageInvestmentDebate is the bull/bear debate loop
	StageInvestmentDebate Stage = "investment-debate"

	// StageManagement covers the research-manager and trader invocations
	StageManagement Stage = "management"

	// StageRiskDebate covers the risk debate loop and the final decision
	StageRiskDebate Stage = "risk-debate"

	// StageDone marks a completed run
	StageDone Stage = "done"
)

// Stages returns the pipeline stages in execution order, excluding StageDone.
func Stages() []Stage {
	return []Stage{
		StageOverview, StageAnalysts, StageInvestmentDebate,
		StageManagement, StageRiskDebate,
	}
}

// Validate checks if the Stage is a valid enum value.
func (s Stage) Validate() error {
	switch s {
	case StageOverview, StageAnalysts, StageInvestmentDebate,
		StageManagement, StageRiskDebate, StageDone:
		return nil
	default:
		return fmt.Errorf("unknown stage: %q", s)
	}
}

// Report is a single agent's textual output. A sentinel report stands in for
// a failed analyst invocation: Sentinel is true, FailureKind names the
// failure, and Content carries a short explanation instead of analysis. The
// sentinel text is deliberately visible to downstream agents.
type Report struct {
	Role        Role   `json:"role"`
	Content     string `json:"content"`
	Sentinel    bool   `json:"sentinel,omitempty"`
	FailureKind string `json:"failure_kind,omitempty"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// Validate checks if the Report has valid field values.
func (r *Report) Validate() error {
	if err := r.Role.Validate(); err != nil {
		return fmt.Errorf("invalid report role: %w", err)
	}

	if r.Content == "" {
		return fmt.Errorf("report content cannot be empty")
	}

	if r.Sentinel && r.FailureKind == "" {
		return fmt.Errorf("sentinel report must carry a failure kind")
	}

	return nil
}

// TranscriptEntry is one debate utterance, tagged with the speaker and the
// zero-based round it was produced in.
type TranscriptEntry struct {
	Role        Role   `json:"role"`
	Round       int    `json:"round"`
	Content     string `json:"content"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// Transcript is an ordered, append-only sequence of debate entries.
// Entries appear in strict (round, speaker-index) order.
type Transcript []TranscriptEntry

// LastByRole returns the most recent entry spoken by the given role,
// or (zero, false) if the role has not spoken.
func (t Transcript) LastByRole(role Role) (TranscriptEntry, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Role == role {
			return t[i], true
		}
	}
	return TranscriptEntry{}, false
}

// CompanyDetails is the stage-0 output. It is visible only to stage-1
// analysts; context construction for later stages omits it entirely.
type CompanyDetails struct {
	Summary      string `json:"summary"`
	ProducedAtMs int64  `json:"produced_at_ms"`
}

// StageState is the single accumulating record threaded through a pipeline
// run. Optional fields transition exactly once from absent to present; the
// orchestrator enforces the write-once rule and stage preconditions.
type StageState struct {
	SessionID   string `json:"session_id"`   // UUID - unique identifier for this run
	Query       string `json:"query"`        // Immutable, set once at pipeline start
	StartedAtMs int64  `json:"started_at_ms"`

	CompanyDetails   *CompanyDetails `json:"company_details,omitempty"`
	AnalystReports   map[Role]Report `json:"analyst_reports"`
	InvestmentDebate Transcript      `json:"investment_debate"`
	InvestmentPlan   *Report         `json:"investment_plan,omitempty"`
	TraderPlan       *Report         `json:"trader_plan,omitempty"`
	RiskDebate       Transcript      `json:"risk_debate"`
	FinalDecision    *Report         `json:"final_decision,omitempty"`
}

// Stage reports how far the state has progressed, derived from which fields
// are populated. Useful for session listings and watch output.
func (s *StageState) Stage() Stage {
	switch {
	case s.FinalDecision != nil:
		return StageDone
	case s.TraderPlan != nil:
		return StageRiskDebate
	case len(s.InvestmentDebate) > 0:
		return StageManagement
	case len(s.AnalystReports) > 0:
		return StageInvestmentDebate
	case s.CompanyDetails != nil:
		return StageAnalysts
	default:
		return StageOverview
	}
}

// Clone returns a deep, independent copy of the state. Fan-out tasks and
// progress observers receive clones so no consumer can alias or mutate the
// authoritative record.
func (s *StageState) Clone() *StageState {
	out := &StageState{
		SessionID:   s.SessionID,
		Query:       s.Query,
		StartedAtMs: s.StartedAtMs,
	}

	if s.CompanyDetails != nil {
		cd := *s.CompanyDetails
		out.CompanyDetails = &cd
	}

	if s.AnalystReports != nil {
		out.AnalystReports = make(map[Role]Report, len(s.AnalystReports))
		for role, report := range s.AnalystReports {
			out.AnalystReports[role] = report
		}
	}

	if s.InvestmentDebate != nil {
		out.InvestmentDebate = append(Transcript{}, s.InvestmentDebate...)
	}
	if s.RiskDebate != nil {
		out.RiskDebate = append(Transcript{}, s.RiskDebate...)
	}

	out.InvestmentPlan = cloneReport(s.InvestmentPlan)
	out.TraderPlan = cloneReport(s.TraderPlan)
	out.FinalDecision = cloneReport(s.FinalDecision)

	return out
}

func cloneReport(r *Report) *Report {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Validate checks if the StageState has valid field values.
func (s *StageState) Validate() error {
	if !isValidUUID(s.SessionID) {
		return fmt.Errorf("invalid session ID: not a valid UUID")
	}

	if s.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}

	for role, report := range s.AnalystReports {
		if !role.IsAnalyst() {
			return fmt.Errorf("analyst reports contain non-analyst role %q", role)
		}
		if err := report.Validate(); err != nil {
			return fmt.Errorf("invalid analyst report for %q: %w", role, err)
		}
	}

	return nil
}

// ProgressEvent is published at every stage and debate-round boundary.
// Detail carries a short human-readable note (role invoked, round number).
type ProgressEvent struct {
	SessionID   string `json:"session_id"`
	Stage       Stage  `json:"stage"`
	Detail      string `json:"detail"`
	EmittedAtMs int64  `json:"emitted_at_ms"`
}

// Validate checks if the ProgressEvent has valid field values.
func (e *ProgressEvent) Validate() error {
	if !isValidUUID(e.SessionID) {
		return fmt.Errorf("invalid session ID: not a valid UUID")
	}

	if err := e.Stage.Validate(); err != nil {
		return fmt.Errorf("invalid stage: %w", err)
	}

	return nil
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
