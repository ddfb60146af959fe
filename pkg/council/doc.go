// Package council provides type-safe Go definitions and Redis schema patterns
// for the Moot analysis council.
//
// # Overview
//
// A council run is one end-to-end investment analysis: a fixed five-stage
// pipeline (overview → analysts → investment debate → management → risk
// debate) driven by the orchestrator against a single accumulating record.
// This package defines that record (StageState) and the supporting types
// shared by the orchestrator, the CLI, and the session store.
//
// # Core Concepts
//
// Roles identify the agents in the pipeline: the overview agent, the six
// stage-1 analysts, the bull/bear and aggressive/safe/neutral debaters, the
// research manager, the trader, and the risk manager who produces the final
// decision. The role set is closed - the orchestrator dispatches on roles,
// never on concrete agent internals.
//
// Reports are individual agent outputs. A sentinel report stands in for a
// failed analyst invocation so one flaky analyst never blocks a run; the
// sentinel's failure text remains visible to downstream agents.
//
// Transcripts are ordered, append-only sequences of debate utterances tagged
// with speaker and round. Entries appear in strict (round, speaker) order.
//
// StageState is the single record threaded through a run. Optional fields
// transition exactly once from absent to present; analyst reports are merged
// in as a set keyed by role after the fan-out stage settles.
//
// # Multi-Instance Support
//
// All Redis keys and Pub/Sub channels are namespaced by instance name to
// enable multiple Moot instances to safely coexist on a single Redis server
// without interference. Each instance has complete isolation of its data
// and events.
//
// # Usage Example
//
//	import "github.com/dyluth/moot/pkg/council"
//
//	state := &council.StageState{
//		SessionID:   uuid.New().String(),
//		Query:       "AAPL",
//		StartedAtMs: time.Now().UnixMilli(),
//	}
//
//	// Validate before storing
//	if err := state.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
//	// Generate Redis key for this session
//	key := council.SessionKey("default", state.SessionID)
//	// key = "moot:default:session:<uuid>"
//
// # Redis Schema
//
// All Redis keys follow the pattern: moot:{instance_name}:{entity}:{id}
//
// Sessions: moot:{instance_name}:session:{session_id}
// Session index: moot:{instance_name}:sessions
//
// Pub/Sub channels: moot:{instance_name}:{event_type}_events
//
// Progress events: moot:{instance_name}:progress_events
//
// # Design Principles
//
// - Type Safety: All data structures have strong typing with validation methods
// - Append-only: transcripts grow monotonically; optional fields are write-once
// - Isolation: Instance namespacing prevents cross-instance interference
// - Simplicity: Minimal dependencies (only google/uuid for validation)
package council
