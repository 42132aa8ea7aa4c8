package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/specloom/specloom/pkg/domain"
)

// FindingsSummary formats validation findings for a terminal, errors in
// red and advisories in yellow. Returns a green all-clear line when
// there is nothing to report.
func FindingsSummary(findings []domain.Finding) string {
	p := termenv.ColorProfile()
	var b strings.Builder

	errCount, advCount := 0, 0
	for _, f := range findings {
		var line termenv.Style
		switch f.Severity {
		case domain.SeverityError:
			errCount++
			line = termenv.String("✗ " + findingLine(f)).Foreground(p.Color("#f87171"))
		default:
			advCount++
			line = termenv.String("! " + findingLine(f)).Foreground(p.Color("#fbbf24"))
		}
		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(findings) == 0 {
		ok := termenv.String("✓ all decisions pass the mapping rules").Foreground(p.Color("#34d399"))
		return ok.String() + "\n"
	}

	summary := termenv.String(fmt.Sprintf("%d error(s), %d advisory(ies)", errCount, advCount)).Bold()
	b.WriteString(summary.String())
	b.WriteString("\n")
	return b.String()
}

func findingLine(f domain.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", f.Rule, f.NodeID)
	if f.RelatedID != "" {
		fmt.Fprintf(&b, " (parent %s)", f.RelatedID)
	}
	b.WriteString(": ")
	b.WriteString(f.Detail)
	return b.String()
}
