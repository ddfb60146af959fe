package council

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between Go structs and Redis hashes
//
// Redis stores data as string-to-string maps (hashes). Composite fields
// (report maps, transcripts) are JSON-encoded into single hash fields. This
// keeps scalar fields individually queryable (query, stage, timestamps) while
// the structured payloads round-trip losslessly.

// StageStateToHash converts a StageState to a Redis hash format.
// Composite fields are JSON-encoded; the derived stage is stored as a plain
// field so session listings can filter without decoding the whole record.
func StageStateToHash(s *StageState) (map[string]interface{}, error) {
	analystReportsJSON, err := json.Marshal(s.AnalystReports)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyst_reports: %w", err)
	}

	investmentDebateJSON, err := json.Marshal(s.InvestmentDebate)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal investment_debate: %w", err)
	}

	riskDebateJSON, err := json.Marshal(s.RiskDebate)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal risk_debate: %w", err)
	}

	hash := map[string]interface{}{
		"session_id":        s.SessionID,
		"query":             s.Query,
		"started_at_ms":     s.StartedAtMs,
		"stage":             string(s.Stage()),
		"analyst_reports":   string(analystReportsJSON),
		"investment_debate": string(investmentDebateJSON),
		"risk_debate":       string(riskDebateJSON),
	}

	if err := encodeOptional(hash, "company_details", s.CompanyDetails != nil, s.CompanyDetails); err != nil {
		return nil, err
	}
	if err := encodeOptional(hash, "investment_plan", s.InvestmentPlan != nil, s.InvestmentPlan); err != nil {
		return nil, err
	}
	if err := encodeOptional(hash, "trader_plan", s.TraderPlan != nil, s.TraderPlan); err != nil {
		return nil, err
	}
	if err := encodeOptional(hash, "final_decision", s.FinalDecision != nil, s.FinalDecision); err != nil {
		return nil, err
	}

	return hash, nil
}

// encodeOptional JSON-encodes an optional field, storing "" when absent.
func encodeOptional(hash map[string]interface{}, field string, present bool, v interface{}) error {
	if !present {
		hash[field] = ""
		return nil
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", field, err)
	}
	hash[field] = string(encoded)
	return nil
}

// HashToStageState converts a Redis hash back to a StageState.
// JSON fields are decoded back to Go types.
func HashToStageState(hash map[string]string) (*StageState, error) {
	startedAtMs, _ := strconv.ParseInt(hash["started_at_ms"], 10, 64)

	state := &StageState{
		SessionID:   hash["session_id"],
		Query:       hash["query"],
		StartedAtMs: startedAtMs,
	}

	if reportsJSON := hash["analyst_reports"]; reportsJSON != "" {
		if err := json.Unmarshal([]byte(reportsJSON), &state.AnalystReports); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analyst_reports: %w", err)
		}
	}

	// Ensure we have an empty map instead of nil for consistency
	if state.AnalystReports == nil {
		state.AnalystReports = map[Role]Report{}
	}

	if debateJSON := hash["investment_debate"]; debateJSON != "" {
		if err := json.Unmarshal([]byte(debateJSON), &state.InvestmentDebate); err != nil {
			return nil, fmt.Errorf("failed to unmarshal investment_debate: %w", err)
		}
	}

	if debateJSON := hash["risk_debate"]; debateJSON != "" {
		if err := json.Unmarshal([]byte(debateJSON), &state.RiskDebate); err != nil {
			return nil, fmt.Errorf("failed to unmarshal risk_debate: %w", err)
		}
	}

	if detailsJSON := hash["company_details"]; detailsJSON != "" {
		state.CompanyDetails = &CompanyDetails{}
		if err := json.Unmarshal([]byte(detailsJSON), state.CompanyDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal company_details: %w", err)
		}
	}

	var err error
	if state.InvestmentPlan, err = decodeOptionalReport(hash, "investment_plan"); err != nil {
		return nil, err
	}
	if state.TraderPlan, err = decodeOptionalReport(hash, "trader_plan"); err != nil {
		return nil, err
	}
	if state.FinalDecision, err = decodeOptionalReport(hash, "final_decision"); err != nil {
		return nil, err
	}

	return state, nil
}

func decodeOptionalReport(hash map[string]string, field string) (*Report, error) {
	reportJSON := hash[field]
	if reportJSON == "" {
		return nil, nil
	}

	report := &Report{}
	if err := json.Unmarshal([]byte(reportJSON), report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", field, err)
	}
	return report, nil
}
