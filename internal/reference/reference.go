// Package reference holds the fixed lookup tables that drive imputation and
// the static dimensions. Tables are values; callers receive copies.
package reference

import (
	"maps"

	"github.com/shopspring/decimal"
)

// DefaultAnalysisYear is the calendar year covered by the date dimension.
const DefaultAnalysisYear = 2025

// Room describes a room type.
type Room struct {
	Code          string
	Name          string
	FloorCategory string
	RackRate      decimal.Decimal
	MaxOccupancy  int
}

// Channel describes a booking channel.
type Channel struct {
	Name          string
	Category      string
	CommissionPct decimal.Decimal
}

// RateCode describes a rate plan. DiscountPct is the published discount and
// is not used for imputation; see Tables.DiscountMultipliers.
type RateCode struct {
	Code        string
	Description string
	DiscountPct decimal.Decimal
}

// Tables is the complete reference configuration for one pipeline run.
type Tables struct {
	RackRates           map[string]decimal.Decimal
	DiscountMultipliers map[string]decimal.Decimal
	Rooms               []Room
	Channels            []Channel
	RateCodes           []RateCode
	AnalysisYear        int
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Default returns the built-in reference tables.
func Default() Tables {
	rooms := []Room{
		{Code: "STD", Name: "Standard Queen", FloorCategory: "Standard", RackRate: dec("189"), MaxOccupancy: 2},
		{Code: "KNG", Name: "Deluxe King", FloorCategory: "Standard", RackRate: dec("219"), MaxOccupancy: 2},
		{Code: "DBL", Name: "Double Queen", FloorCategory: "Standard", RackRate: dec("199"), MaxOccupancy: 4},
		{Code: "JRS", Name: "Junior Suite", FloorCategory: "Premium", RackRate: dec("289"), MaxOccupancy: 3},
		{Code: "STE", Name: "Executive Suite", FloorCategory: "Premium", RackRate: dec("399"), MaxOccupancy: 4},
	}

	rackRates := make(map[string]decimal.Decimal, len(rooms))
	for _, r := range rooms {
		rackRates[r.Code] = r.RackRate
	}

	return Tables{
		RackRates: rackRates,
		DiscountMultipliers: map[string]decimal.Decimal{
			"BAR":  dec("1.00"),
			"AAA":  dec("0.85"),
			"GOV":  dec("0.80"),
			"CORP": dec("0.82"),
			"PKG":  dec("0.90"),
			"DISC": dec("0.75"),
		},
		Rooms: rooms,
		Channels: []Channel{
			{Name: "Direct - Website", Category: "Direct", CommissionPct: dec("0")},
			{Name: "Direct - Phone", Category: "Direct", CommissionPct: dec("0")},
			{Name: "Booking.com", Category: "OTA", CommissionPct: dec("15")},
			{Name: "Expedia", Category: "OTA", CommissionPct: dec("18")},
			{Name: "GDS", Category: "Indirect", CommissionPct: dec("10")},
			{Name: "Travel Agent", Category: "Indirect", CommissionPct: dec("8")},
			{Name: "Group Sales", Category: "Group", CommissionPct: dec("5")},
		},
		RateCodes: []RateCode{
			{Code: "BAR", Description: "Best Available Rate", DiscountPct: dec("0")},
			{Code: "AAA", Description: "AAA Member Rate", DiscountPct: dec("10")},
			{Code: "GOV", Description: "Government Rate", DiscountPct: dec("20")},
			{Code: "CORP", Description: "Corporate Negotiated Rate", DiscountPct: dec("15")},
			{Code: "PKG", Description: "Package Rate", DiscountPct: dec("5")},
			{Code: "DISC", Description: "Promotional Discount", DiscountPct: dec("25")},
		},
		AnalysisYear: DefaultAnalysisYear,
	}
}

// Clone returns a deep copy so callers can override entries safely.
func (t Tables) Clone() Tables {
	out := t
	out.RackRates = maps.Clone(t.RackRates)
	out.DiscountMultipliers = maps.Clone(t.DiscountMultipliers)
	out.Rooms = append([]Room(nil), t.Rooms...)
	out.Channels = append([]Channel(nil), t.Channels...)
	out.RateCodes = append([]RateCode(nil), t.RateCodes...)

	return out
}

// ImputedRate returns rack_rate[roomType] x multiplier[rateCode] rounded to
// cents. ok is false when either key is unknown.
func (t Tables) ImputedRate(roomType, rateCode string) (rate decimal.Decimal, ok bool) {
	rack, ok := t.RackRates[roomType]
	if !ok {
		return decimal.Decimal{}, false
	}

	mult, ok := t.DiscountMultipliers[rateCode]
	if !ok {
		return decimal.Decimal{}, false
	}

	return rack.Mul(mult).Round(2), true
}
