// Package export renders a pipeline session into shareable documents.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dyluth/moot/pkg/council"
)

// Format identifies an export output format.
type Format string

const (
	// FormatMarkdown renders a human-readable report document.
	FormatMarkdown Format = "md"
	// FormatJSON renders the full session state as indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format: %q (must be 'md' or 'json')", s)
	}
}

// Render produces the export document for a session in the given format.
// Partial sessions render whatever stages have completed.
func Render(state *council.StageState, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(state), nil
	case FormatJSON:
		return renderJSON(state)
	default:
		return "", fmt.Errorf("unknown export format: %q", format)
	}
}

func renderJSON(state *council.StageState) (string, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	return string(data) + "\n", nil
}

func renderMarkdown(state *council.StageState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Investment analysis: %s\n\n", firstLine(state.Query))
	fmt.Fprintf(&b, "Session `%s` · stage: %s\n", state.SessionID, state.Stage())

	if state.CompanyDetails != nil {
		b.WriteString("\n## Company overview\n\n")
		b.WriteString(strings.TrimSpace(state.CompanyDetails.Summary))
		b.WriteString("\n")
	}

	if len(state.AnalystReports) > 0 {
		b.WriteString("\n## Analyst reports\n")
		for _, role := range council.AnalystRoles() {
			report, ok := state.AnalystReports[role]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n\n", roleHeading(role))
			if report.Sentinel {
				fmt.Fprintf(&b, "> Unavailable (%s): %s\n", report.FailureKind, strings.TrimSpace(report.Content))
			} else {
				b.WriteString(strings.TrimSpace(report.Content))
				b.WriteString("\n")
			}
		}
	}

	writeTranscript(&b, "Investment debate", state.InvestmentDebate)

	if state.InvestmentPlan != nil {
		b.WriteString("\n## Investment plan\n\n")
		b.WriteString(strings.TrimSpace(state.InvestmentPlan.Content))
		b.WriteString("\n")
	}

	if state.TraderPlan != nil {
		b.WriteString("\n## Trader plan\n\n")
		b.WriteString(strings.TrimSpace(state.TraderPlan.Content))
		b.WriteString("\n")
	}

	writeTranscript(&b, "Risk debate", state.RiskDebate)

	if state.FinalDecision != nil {
		b.WriteString("\n## Final decision\n\n")
		b.WriteString(strings.TrimSpace(state.FinalDecision.Content))
		b.WriteString("\n")
	}

	return b.String()
}

func writeTranscript(b *strings.Builder, title string, transcript council.Transcript) {
	if len(transcript) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, entry := range transcript {
		fmt.Fprintf(b, "**[round %d] %s:** %s\n\n", entry.Round, entry.Role, strings.TrimSpace(entry.Content))
	}
}

// roleHeading turns a role name into a section heading,
// e.g. "research-manager" -> "Research manager".
func roleHeading(role council.Role) string {
	s := strings.ReplaceAll(string(role), "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
