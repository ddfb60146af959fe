package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/dyluth/moot/pkg/council"
)

// RecordedCall captures one invocation seen by the ScriptedInvoker.
type RecordedCall struct {
	Role   council.Role
	Bundle ContextBundle
}

// ScriptedInvoker is a deterministic Invoker for tests. Responses are served
// per role in script order (the last script entry repeats once exhausted);
// roles without a script get a generated "role response N" string. Roles
// listed in Fail always fail with the given kind. Safe for concurrent use -
// the fan-out stage invokes it from multiple goroutines.
type ScriptedInvoker struct {
	Responses map[council.Role][]string
	Fail      map[council.Role]FailureKind

	mu    sync.Mutex
	calls map[council.Role]int
	seen  []RecordedCall
}

// Invoke serves the scripted response for the role, recording the call.
func (s *ScriptedInvoker) Invoke(ctx context.Context, role council.Role, bundle ContextBundle) (council.Report, error) {
	if err := ctx.Err(); err != nil {
		return council.Report{}, NewFailure(role, err)
	}

	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[council.Role]int)
	}
	n := s.calls[role]
	s.calls[role] = n + 1
	s.seen = append(s.seen, RecordedCall{Role: role, Bundle: bundle})
	script := s.Responses[role]
	kind, fail := s.Fail[role]
	s.mu.Unlock()

	if fail {
		return council.Report{}, &Failure{Role: role, Kind: kind, Err: fmt.Errorf("scripted failure")}
	}

	content := fmt.Sprintf("%s response %d", role, n+1)
	if len(script) > 0 {
		if n >= len(script) {
			n = len(script) - 1
		}
		content = script[n]
	}

	return council.Report{Role: role, Content: content}, nil
}

// CallCount returns how many times the role was invoked.
func (s *ScriptedInvoker) CallCount(role council.Role) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[role]
}

// Calls returns all recorded invocations in arrival order.
func (s *ScriptedInvoker) Calls() []RecordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedCall, len(s.seen))
	copy(out, s.seen)
	return out
}
