package schema

import (
	"hotelstar/internal/logger"
	"hotelstar/internal/models"
	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
)

// Builder produces the full star schema from clean bookings.
type Builder struct {
	tables reference.Tables
	policy quality.Policy
	log    *logger.Logger
}

// NewBuilder creates a builder bound to the reference tables and anomaly policy.
func NewBuilder(tables reference.Tables, policy quality.Policy, log *logger.Logger) *Builder {
	if policy == nil {
		policy = quality.DefaultPolicy()
	}

	return &Builder{tables: tables, policy: policy, log: log}
}

// Build constructs every dimension and the fact table. Guest-name collisions
// follow the policy: default keeps the booking, drop removes it from the
// facts, fail aborts.
func (b *Builder) Build(records []models.Booking, report *quality.Report) (*models.StarSchema, error) {
	guests, issues := BuildGuestDimension(records)

	for _, issue := range issues {
		b.log.Debug("data anomaly", "stage", "dimensions", "row", issue.Row, "kind", string(issue.Kind),
			"value", issue.Value, "action", string(b.policy.ActionFor(issue.Kind)))
	}

	drop, err := b.policy.Resolve(issues, report)
	if err != nil {
		return nil, err
	}

	kept := models.WithoutRows(records, drop)
	report.PolicyDropped += len(records) - len(kept)

	star := &models.StarSchema{
		Guests:    guests,
		Rooms:     BuildRoomDimension(b.tables),
		Dates:     BuildDateDimension(b.tables.AnalysisYear),
		Channels:  BuildChannelDimension(b.tables),
		RateCodes: BuildRateCodeDimension(b.tables),
	}

	star.Facts = NewAssembler(star.Guests, star.Rooms, star.Channels, star.RateCodes).Assemble(kept)

	report.FactRows = len(star.Facts)
	report.GuestDimensionRows = len(star.Guests)
	report.NullForeignKeys = NullForeignKeys(star.Facts)

	b.log.Info("built star schema", "stage", "schema",
		"facts", len(star.Facts),
		"guests", len(star.Guests),
		"rooms", len(star.Rooms),
		"dates", len(star.Dates),
		"channels", len(star.Channels),
		"rate_codes", len(star.RateCodes),
		"null_foreign_keys", report.NullForeignKeys)

	return star, nil
}
