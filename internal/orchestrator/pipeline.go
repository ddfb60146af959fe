package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/moot/internal/agent"
	"github.com/dyluth/moot/pkg/council"
)

// RunConfig is the immutable per-run configuration, read once at run start.
type RunConfig struct {
	EnabledAnalysts     []council.Role
	MaxDebateRounds     int
	MaxRiskDebateRounds int
}

// Validate checks the run configuration.
func (c *RunConfig) Validate() error {
	if len(c.EnabledAnalysts) == 0 {
		return fmt.Errorf("no analyst roles enabled")
	}
	seen := make(map[council.Role]bool)
	for _, role := range c.EnabledAnalysts {
		if !role.IsAnalyst() {
			return fmt.Errorf("role %q is not an analyst", role)
		}
		if seen[role] {
			return fmt.Errorf("duplicate analyst role: %q", role)
		}
		seen[role] = true
	}

	if c.MaxDebateRounds < 1 {
		return fmt.Errorf("max debate rounds must be >= 1, got %d", c.MaxDebateRounds)
	}
	if c.MaxRiskDebateRounds < 1 {
		return fmt.Errorf("max risk debate rounds must be >= 1, got %d", c.MaxRiskDebateRounds)
	}

	return nil
}

// Observer is called at every stage and debate-round boundary with a
// read-only snapshot of the state so far. Snapshots are deep clones; an
// observer can never mutate the authoritative record.
type Observer func(ev council.ProgressEvent, snapshot *council.StageState)

// Pipeline drives the fixed five-stage analysis: overview, the concurrent
// analyst fan-out, the bull/bear investment debate, the research-manager and
// trader invocations, and the risk debate with the risk manager's final
// decision. Stage order is rigid; a stage either fully commits its StageState
// mutation or the run halts with a PipelineError.
type Pipeline struct {
	cfg      RunConfig
	invoker  agent.Invoker
	observer Observer

	// Injectable for deterministic tests
	now   func() int64
	newID func() string
}

// New creates a pipeline. The observer may be nil.
func New(cfg RunConfig, invoker agent.Invoker, observer Observer) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	if invoker == nil {
		return nil, fmt.Errorf("invoker is required")
	}

	return &Pipeline{
		cfg:      cfg,
		invoker:  invoker,
		observer: observer,
		now:      func() int64 { return time.Now().UnixMilli() },
		newID:    func() string { return uuid.New().String() },
	}, nil
}

// Run executes the full pipeline for one query. On failure the accumulated
// StageState is still returned alongside the PipelineError for diagnostics;
// FinalDecision is set only when the risk manager actually produced it.
func (p *Pipeline) Run(ctx context.Context, query string) (*council.StageState, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	state := &council.StageState{
		SessionID:   p.newID(),
		Query:       query,
		StartedAtMs: p.now(),
	}

	p.logEvent("run_started", map[string]interface{}{
		"session_id": state.SessionID,
		"query":      query,
		"analysts":   len(p.cfg.EnabledAnalysts),
	})

	for _, stage := range council.Stages() {
		if err := p.runStage(ctx, stage, state); err != nil {
			perr := &PipelineError{Stage: stage, Cause: err}
			p.logEvent("run_failed", map[string]interface{}{
				"session_id": state.SessionID,
				"stage":      string(stage),
				"error":      err.Error(),
			})
			return state, perr
		}
		p.observe(state, stage, "stage complete")
	}

	p.logEvent("run_complete", map[string]interface{}{
		"session_id": state.SessionID,
	})

	return state, nil
}

// runStage dispatches one macro-stage, checking its entry precondition.
func (p *Pipeline) runStage(ctx context.Context, stage council.Stage, state *council.StageState) error {
	switch stage {
	case council.StageOverview:
		return p.runOverview(ctx, state)

	case council.StageAnalysts:
		if state.CompanyDetails == nil {
			return fmt.Errorf("precondition failed: company details absent")
		}
		return p.runAnalysts(ctx, state)

	case council.StageInvestmentDebate:
		if len(state.AnalystReports) != len(p.cfg.EnabledAnalysts) {
			return fmt.Errorf("precondition failed: %d of %d analyst reports present",
				len(state.AnalystReports), len(p.cfg.EnabledAnalysts))
		}
		return p.runDebate(ctx, state, council.StageInvestmentDebate,
			[]council.Role{council.RoleBull, council.RoleBear},
			p.cfg.MaxDebateRounds, &state.InvestmentDebate)

	case council.StageManagement:
		if len(state.InvestmentDebate) == 0 {
			return fmt.Errorf("precondition failed: investment debate transcript empty")
		}
		return p.runManagement(ctx, state)

	case council.StageRiskDebate:
		if state.TraderPlan == nil {
			return fmt.Errorf("precondition failed: trader plan absent")
		}
		return p.runRiskStage(ctx, state)

	default:
		return fmt.Errorf("unknown stage: %q", stage)
	}
}

// runOverview performs the single stage-0 invocation with the query only.
func (p *Pipeline) runOverview(ctx context.Context, state *council.StageState) error {
	bundle := analystBundle(state)

	report, err := p.invoker.Invoke(ctx, council.RoleOverview, bundle)
	if err != nil {
		return &SequentialStageFailed{
			Stage: council.StageOverview,
			Role:  council.RoleOverview,
			Cause: agent.NewFailure(council.RoleOverview, err),
		}
	}

	state.CompanyDetails = &council.CompanyDetails{
		Summary:      report.Content,
		ProducedAtMs: p.now(),
	}
	return nil
}

// runManagement performs the two strictly sequential stage-3 invocations:
// the research manager sets the investment plan, then the trader - whose
// context requires that plan - sets the trade proposal.
func (p *Pipeline) runManagement(ctx context.Context, state *council.StageState) error {
	plan, err := p.invoker.Invoke(ctx, council.RoleResearchManager, fullBundle(state))
	if err != nil {
		return &SequentialStageFailed{
			Stage: council.StageManagement,
			Role:  council.RoleResearchManager,
			Cause: agent.NewFailure(council.RoleResearchManager, err),
		}
	}
	plan.Role = council.RoleResearchManager
	plan.CreatedAtMs = p.now()
	state.InvestmentPlan = &plan

	p.observe(state, council.StageManagement, "investment plan set")

	trade, err := p.invoker.Invoke(ctx, council.RoleTrader, fullBundle(state))
	if err != nil {
		return &SequentialStageFailed{
			Stage: council.StageManagement,
			Role:  council.RoleTrader,
			Cause: agent.NewFailure(council.RoleTrader, err),
		}
	}
	trade.Role = council.RoleTrader
	trade.CreatedAtMs = p.now()
	state.TraderPlan = &trade

	return nil
}

// runRiskStage runs the three-party risk debate then the risk manager's
// final decision against the complete record.
func (p *Pipeline) runRiskStage(ctx context.Context, state *council.StageState) error {
	err := p.runDebate(ctx, state, council.StageRiskDebate,
		[]council.Role{council.RoleAggressive, council.RoleSafe, council.RoleNeutral},
		p.cfg.MaxRiskDebateRounds, &state.RiskDebate)
	if err != nil {
		return err
	}

	decision, err := p.invoker.Invoke(ctx, council.RoleRiskManager, fullBundle(state))
	if err != nil {
		return &SequentialStageFailed{
			Stage: council.StageRiskDebate,
			Role:  council.RoleRiskManager,
			Cause: agent.NewFailure(council.RoleRiskManager, err),
		}
	}
	decision.Role = council.RoleRiskManager
	decision.CreatedAtMs = p.now()
	state.FinalDecision = &decision

	return nil
}

// observe emits a progress event with a deep snapshot of the state so far.
func (p *Pipeline) observe(state *council.StageState, stage council.Stage, detail string) {
	if p.observer == nil {
		return
	}
	p.observer(council.ProgressEvent{
		SessionID:   state.SessionID,
		Stage:       stage,
		Detail:      detail,
		EmittedAtMs: p.now(),
	}, state.Clone())
}

// logEvent logs a structured event in JSON format.
func (p *Pipeline) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "pipeline"
	data["event_type"] = eventType

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Pipeline] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
