package copycheck

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a copyright check. Each invocation moves
// pending → checking → one terminal state; results are never mutated after
// a check returns.
type Status int

const (
	StatusPending Status = iota
	StatusChecking
	StatusPassed
	StatusFailed
	StatusWarning
	StatusManualReview
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusChecking:
		return "checking"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusWarning:
		return "warning"
	case StatusManualReview:
		return "manual_review"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form, matching what the CMS
// stores.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form written by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "pending":
		*s = StatusPending
	case "checking":
		*s = StatusChecking
	case "passed":
		*s = StatusPassed
	case "failed":
		*s = StatusFailed
	case "warning":
		*s = StatusWarning
	case "manual_review":
		*s = StatusManualReview
	default:
		return fmt.Errorf("unknown check status %q", str)
	}
	return nil
}

// Severity grades a Warning.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "low"
	}
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form written by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "low":
		*s = SeverityLow
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	default:
		return fmt.Errorf("unknown warning severity %q", str)
	}
	return nil
}

// Violation is a signal that strongly suggests infringement.
type Violation struct {
	Type       string  `json:"type"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence"` // in [0,1]
	Message    string  `json:"message,omitempty"`
}

// Warning is a softer signal requiring human judgement.
type Warning struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// CheckResult is the outcome of one check invocation.
type CheckResult struct {
	Status      Status         `json:"status"`
	Violations  []Violation    `json:"violations"`
	Warnings    []Warning      `json:"warnings"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	Provider    string         `json:"provider"`
	Signals     []Signal       `json:"signals,omitempty"`
}

// newCheckResult creates a fresh pending result for the given provider.
func newCheckResult(p Provider) *CheckResult {
	return &CheckResult{
		Status:     StatusPending,
		Violations: []Violation{},
		Warnings:   []Warning{},
		Metadata:   map[string]any{},
		Provider:   p.String(),
	}
}

// addViolation appends a violation signal.
func (r *CheckResult) addViolation(v Violation) {
	r.Violations = append(r.Violations, v)
}

// addWarning appends a warning signal.
func (r *CheckResult) addWarning(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// finalize derives the terminal status from the collected signals:
// any violation ⇒ failed; else any warning or filename suspicion ⇒ warning;
// else passed.
func (r *CheckResult) finalize(filenameSuspicious bool) {
	switch {
	case len(r.Violations) > 0:
		r.Status = StatusFailed
	case len(r.Warnings) > 0 || filenameSuspicious:
		r.Status = StatusWarning
	default:
		r.Status = StatusPassed
	}
}
