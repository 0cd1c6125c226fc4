// Package normalizer turns raw booking rows into clean bookings: record
// normalization, deduplication, imputation and validation, in that order.
package normalizer

import (
	"hotelstar/internal/logger"
	"hotelstar/internal/models"
	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
)

// Processor runs the cleaning stages over a whole batch.
type Processor struct {
	normalizer *RecordNormalizer
	imputer    *Imputer
	validator  *Validator
	policy     quality.Policy
	log        *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(tables reference.Tables, policy quality.Policy, log *logger.Logger) *Processor {
	if policy == nil {
		policy = quality.DefaultPolicy()
	}

	return &Processor{
		normalizer: NewRecordNormalizer(),
		imputer:    NewImputer(tables),
		validator:  NewValidator(),
		policy:     policy,
		log:        log,
	}
}

// Process cleans raw rows and records every anomaly and dropped row in report.
// It fails only when the policy for an observed anomaly is quality.ActionFail.
func (p *Processor) Process(raw []models.RawBooking, report *quality.Report) ([]models.Booking, error) {
	report.RawRows = len(raw)

	// 1. Normalize
	normalized := make([]models.Booking, 0, len(raw))

	var issues []quality.Issue

	for _, r := range raw {
		b, rowIssues := p.normalizer.Normalize(r)
		normalized = append(normalized, b)
		issues = append(issues, rowIssues...)
	}

	p.log.Info("normalized bookings", "stage", "normalize", "in", len(raw), "out", len(normalized))

	// 2. Deduplicate; anomalies of removed duplicates are not counted.
	unique, removed := Deduplicate(normalized)
	report.DuplicateRows = removed
	p.log.Info("removed duplicate bookings", "stage", "dedup", "in", len(normalized), "removed", removed)

	unique, err := p.resolve("normalize", unique, issuesOf(unique, issues), report)
	if err != nil {
		return nil, err
	}

	// 3. Impute
	imputed, issues := p.imputer.Impute(unique)

	imputed, err = p.resolve("impute", imputed, issues, report)
	if err != nil {
		return nil, err
	}

	countImputed(imputed, report)
	p.log.Info("imputed missing values", "stage", "impute",
		"loyalty_tier", report.Imputed["loyalty_tier"],
		"num_guests", report.Imputed["num_guests"],
		"daily_rate", report.Imputed["daily_rate"],
		"total_revenue", report.Imputed["total_revenue"])

	// 4. Validate
	clean, rejected := p.validator.Filter(imputed)
	report.RejectedRows = rejected
	report.CleanRows = len(clean)
	p.log.Info("validated bookings", "stage", "validate", "in", len(imputed), "rejected", rejected, "out", len(clean))

	return clean, nil
}

// resolve applies the policy to the issues of one stage.
func (p *Processor) resolve(stage string, records []models.Booking, issues []quality.Issue, report *quality.Report) ([]models.Booking, error) {
	if len(issues) == 0 {
		return records, nil
	}

	for _, issue := range issues {
		p.log.Debug("data anomaly", "stage", stage, "row", issue.Row, "kind", string(issue.Kind),
			"field", issue.Field, "value", issue.Value, "action", string(p.policy.ActionFor(issue.Kind)))
	}

	drop, err := p.policy.Resolve(issues, report)
	if err != nil {
		return nil, err
	}

	kept := models.WithoutRows(records, drop)
	report.PolicyDropped += len(records) - len(kept)

	return kept, nil
}

// issuesOf keeps the issues raised on rows present in records.
func issuesOf(records []models.Booking, issues []quality.Issue) []quality.Issue {
	rows := make(map[int]bool, len(records))
	for i := range records {
		rows[records[i].Row] = true
	}

	kept := issues[:0:0]

	for _, issue := range issues {
		if rows[issue.Row] {
			kept = append(kept, issue)
		}
	}

	return kept
}

func countImputed(records []models.Booking, report *quality.Report) {
	for i := range records {
		im := records[i].Imputed
		if im.LoyaltyTier {
			report.Imputed["loyalty_tier"]++
		}

		if im.NumGuests {
			report.Imputed["num_guests"]++
		}

		if im.DailyRate {
			report.Imputed["daily_rate"]++
		}

		if im.TotalRevenue {
			report.Imputed["total_revenue"]++
		}
	}
}
