package domain

// Severity grades a validator finding. Errors block a strict export;
// advisories are informational and never corrected silently.
type Severity string

const (
	SeverityError    Severity = "error"
	SeverityAdvisory Severity = "advisory"
)

// Validator rule tags. Stable identifiers surfaced to the caller.
const (
	RuleMissingDecision = "missing-decision"
	RuleComponentBase   = "missing-component-base"
	RuleUnknownBase     = "unrecognized-component-base"
	RuleLayoutKind      = "unknown-layout-kind"
	RulePinsGrammar     = "invalid-pins"
	RuleStackAxis       = "stack-axis"
	RuleCellSizing      = "cell-sizing"
	RuleFixedCellSize   = "fixed-cell-size"
	RuleComposition     = "parent-composition"
	RuleControlContent  = "control-content"
)

// Finding is one validator result. Findings are data, never thrown, so
// the calling agent can iterate on its decisions before export.
type Finding struct {
	Severity  Severity `json:"severity"`
	Rule      string   `json:"rule"`
	NodeID    string   `json:"nodeId"`
	RelatedID string   `json:"relatedId,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

// HasErrors reports whether any finding carries error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
