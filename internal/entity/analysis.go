package entity

// Severity is the ordered three-value scale for anomaly findings.
// Values are what the analysis prompt asks for; model output is trusted
// as-is and not re-validated against this set.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is one anomaly finding from the analysis stage.
type Issue struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Analysis holds the anomaly findings for one invoice. Tied to the invoice
// by id; created once directly after the invoice record, never mutated.
type Analysis struct {
	InvoiceID string  `json:"invoice_id"`
	Issues    []Issue `json:"issues"`
}

// Recommendations holds remediation actions and savings estimates for one
// invoice. Savings and score stay null when the model declines to estimate.
type Recommendations struct {
	InvoiceID        string   `json:"invoice_id"`
	Recommendations  []string `json:"recommendations"`
	PotentialSavings *float64 `json:"potential_savings"`
	EfficiencyScore  *float64 `json:"efficiency_score"`
}

// FullResult is the combined triple for one invoice identifier — the unit
// of durability that satisfies read queries against the public API.
type FullResult struct {
	Invoice         *Invoice         `json:"invoice"`
	Analysis        *Analysis        `json:"analysis"`
	Recommendations *Recommendations `json:"recommendations"`
}
