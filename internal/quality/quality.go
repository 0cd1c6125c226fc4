// Package quality classifies data anomalies found while cleaning bookings and
// aggregates them into a per-run report.
package quality

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnrecoverable is returned when an anomaly's policy action is ActionFail.
var ErrUnrecoverable = errors.New("unrecoverable data anomaly")

// Kind identifies a class of anomaly.
type Kind string

// Anomaly kinds.
const (
	KindUnparsedDate        Kind = "unparsed_date"
	KindUnknownCancellation Kind = "unknown_cancellation"
	KindUnknownRateKey      Kind = "unknown_rate_key"
	KindUnparsedNumber      Kind = "unparsed_number"
	KindGuestNameCollision  Kind = "guest_name_collision"
)

// Kinds lists every anomaly kind in report order.
var Kinds = []Kind{
	KindUnparsedDate,
	KindUnknownCancellation,
	KindUnknownRateKey,
	KindUnparsedNumber,
	KindGuestNameCollision,
}

// Action is what the pipeline does with a row carrying an anomaly.
type Action string

// Policy actions.
const (
	// ActionDefault keeps the row with the default or missing value.
	ActionDefault Action = "default"
	// ActionDrop removes the row at the stage that detected the anomaly.
	ActionDrop Action = "drop"
	// ActionFail aborts the run.
	ActionFail Action = "fail"
)

// IsKnownKind reports whether k is one of Kinds.
func IsKnownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}

	return false
}

// IsValidAction reports whether a is a recognised action.
func IsValidAction(a Action) bool {
	return a == ActionDefault || a == ActionDrop || a == ActionFail
}

// Policy maps each anomaly kind to an action. Kinds absent from the map use ActionDefault.
type Policy map[Kind]Action

// DefaultPolicy resolves every anomaly silently, keeping the row.
func DefaultPolicy() Policy {
	p := make(Policy, len(Kinds))
	for _, k := range Kinds {
		p[k] = ActionDefault
	}

	return p
}

// ActionFor returns the configured action for k.
func (p Policy) ActionFor(k Kind) Action {
	if a, ok := p[k]; ok {
		return a
	}

	return ActionDefault
}

// Issue is a single anomaly observed on one source row.
type Issue struct {
	ConfirmationCode string
	Kind             Kind
	Field            string
	Value            string
	Action           Action
	Row              int
}

// Error implements error so a fatal issue can be wrapped.
func (i Issue) Error() string {
	return fmt.Sprintf("row %d (%s): %s in %s: %q", i.Row, i.ConfirmationCode, i.Kind, i.Field, i.Value)
}

// Report aggregates the anomalies and row counts of one pipeline run.
type Report struct {
	Imputed            map[string]int
	RunID              string
	Issues             []Issue
	RawRows            int
	DuplicateRows      int
	PolicyDropped      int
	RejectedRows       int
	CleanRows          int
	FactRows           int
	NullForeignKeys    int
	GuestDimensionRows int
}

// NewReport creates an empty report.
func NewReport(runID string) *Report {
	return &Report{
		RunID:   runID,
		Imputed: make(map[string]int),
		Issues:  []Issue{},
	}
}

// Add records an issue.
func (r *Report) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Count returns the number of issues of kind k.
func (r *Report) Count(k Kind) int {
	n := 0

	for _, i := range r.Issues {
		if i.Kind == k {
			n++
		}
	}

	return n
}

// Summary returns the report as header and rows for tabular display.
func (r *Report) Summary() ([]string, [][]string) {
	header := []string{"Metric", "Value"}

	rows := [][]string{
		{"raw_rows", strconv.Itoa(r.RawRows)},
		{"duplicate_rows", strconv.Itoa(r.DuplicateRows)},
		{"policy_dropped_rows", strconv.Itoa(r.PolicyDropped)},
		{"validator_rejected_rows", strconv.Itoa(r.RejectedRows)},
		{"clean_rows", strconv.Itoa(r.CleanRows)},
		{"fact_rows", strconv.Itoa(r.FactRows)},
		{"guest_dimension_rows", strconv.Itoa(r.GuestDimensionRows)},
		{"null_foreign_keys", strconv.Itoa(r.NullForeignKeys)},
	}

	for _, k := range Kinds {
		rows = append(rows, []string{"anomaly." + string(k), strconv.Itoa(r.Count(k))})
	}

	fields := make([]string, 0, len(r.Imputed))
	for f := range r.Imputed {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	for _, f := range fields {
		rows = append(rows, []string{"imputed." + f, strconv.Itoa(r.Imputed[f])})
	}

	return header, rows
}

// IssueRows returns the individual issues as header and rows.
func (r *Report) IssueRows() ([]string, [][]string) {
	header := []string{"row", "confirmation_code", "kind", "field", "value", "action"}

	rows := make([][]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		rows = append(rows, []string{
			strconv.Itoa(i.Row),
			i.ConfirmationCode,
			string(i.Kind),
			i.Field,
			i.Value,
			string(i.Action),
		})
	}

	return header, rows
}

// Resolve assigns each issue its action, records it in report and returns the
// source rows to drop. The first fatal issue stops resolution and is returned
// wrapped in ErrUnrecoverable.
func (p Policy) Resolve(issues []Issue, report *Report) (map[int]bool, error) {
	drop := make(map[int]bool)

	for _, issue := range issues {
		issue.Action = p.ActionFor(issue.Kind)
		report.Add(issue)

		switch issue.Action {
		case ActionFail:
			return nil, fmt.Errorf("%w: %w", ErrUnrecoverable, issue)
		case ActionDrop:
			drop[issue.Row] = true
		case ActionDefault:
		}
	}

	return drop, nil
}
