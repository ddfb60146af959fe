package orchestrator

import (
	"context"
	"fmt"

	"github.com/dyluth/moot/internal/agent"
	"github.com/dyluth/moot/pkg/council"
)

// runDebate executes a bounded round-robin debate: maxRounds full passes over
// the participant cycle, every invocation strictly sequential. Each speaker's
// bundle carries the transcript accumulated so far, including its own earlier
// turns, so later speakers can rebut earlier ones directly.
//
// Termination is by round count only - there is no convergence detection and
// no early-exit signal. A participant failure ends the debate on that turn
// with the partial transcript retained in *transcript; the caller surfaces it
// as a stage failure.
func (p *Pipeline) runDebate(ctx context.Context, state *council.StageState, stage council.Stage, participants []council.Role, maxRounds int, transcript *council.Transcript) error {
	for round := 0; round < maxRounds; round++ {
		for _, role := range participants {
			bundle := fullBundle(state)

			report, err := p.invoker.Invoke(ctx, role, bundle)
			if err != nil {
				return &DebateStageFailed{
					Stage: stage,
					Round: round,
					Role:  role,
					Cause: agent.NewFailure(role, err),
				}
			}

			*transcript = append(*transcript, council.TranscriptEntry{
				Role:        role,
				Round:       round,
				Content:     report.Content,
				CreatedAtMs: p.now(),
			})

			p.logEvent("debate_turn", map[string]interface{}{
				"session_id": state.SessionID,
				"stage":      string(stage),
				"round":      round,
				"role":       string(role),
			})
		}

		// Full pass complete; observers see the round boundary
		p.observe(state, stage, fmt.Sprintf("round %d/%d complete", round+1, maxRounds))
	}

	return nil
}
