package agent

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/dyluth/moot/pkg/council"
)

// GeminiInvoker executes agent invocations against Google's Gemini API.
// One invoker is shared by all roles; the role selects the system prompt.
type GeminiInvoker struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiInvoker creates an invoker backed by the given model.
// A non-positive timeout disables the per-invocation deadline.
func NewGeminiInvoker(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiInvoker{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Invoke renders the bundle into a prompt and runs a single model call.
// Failures come back as *Failure with the kind classified (deadline
// expiry maps to timeout).
func (g *GeminiInvoker) Invoke(ctx context.Context, role council.Role, bundle ContextBundle) (council.Report, error) {
	if err := role.Validate(); err != nil {
		return council.Report{}, NewFailure(role, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromText(RenderBundle(bundle), genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{}
	if sys := SystemPrompt(role); sys != "" {
		config.SystemInstruction = genai.NewContentFromText(sys, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return council.Report{}, NewFailure(role, fmt.Errorf("generate content failed: %w", err))
	}

	text := result.Text()
	if text == "" {
		return council.Report{}, NewFailure(role, fmt.Errorf("model returned empty response"))
	}

	return council.Report{Role: role, Content: text}, nil
}
