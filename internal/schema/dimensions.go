// Package schema builds the booking star schema: five dimension tables and
// the fact table that references them by surrogate key.
package schema

import (
	"time"

	"hotelstar/internal/ingest"
	"hotelstar/internal/models"
	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
)

// Season names.
const (
	SeasonWinter = "Winter"
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
)

// BuildGuestDimension assigns one key per distinct guest name in first-seen
// order. The first occurrence's loyalty tier and guest type win; later
// bookings with the same name but different attributes are reported as
// collisions.
func BuildGuestDimension(records []models.Booking) ([]models.GuestDimension, []quality.Issue) {
	var (
		guests []models.GuestDimension
		issues []quality.Issue
	)

	index := make(map[string]int)

	for i := range records {
		b := &records[i]

		if pos, seen := index[b.GuestName]; seen {
			first := guests[pos]
			if first.LoyaltyTier != b.LoyaltyTier.String || first.GuestType != b.GuestType {
				issues = append(issues, quality.Issue{
					Row:              b.Row,
					ConfirmationCode: b.ConfirmationCode,
					Kind:             quality.KindGuestNameCollision,
					Field:            ingest.ColGuestName,
					Value:            b.GuestName,
				})
			}

			continue
		}

		index[b.GuestName] = len(guests)
		guests = append(guests, models.GuestDimension{
			GuestKey:    len(guests) + 1,
			GuestName:   b.GuestName,
			LoyaltyTier: b.LoyaltyTier.String,
			GuestType:   b.GuestType,
		})
	}

	return guests, issues
}

// BuildRoomDimension emits the configured rooms keyed by position.
func BuildRoomDimension(tables reference.Tables) []models.RoomDimension {
	rooms := make([]models.RoomDimension, 0, len(tables.Rooms))

	for i, r := range tables.Rooms {
		rooms = append(rooms, models.RoomDimension{
			RoomKey:       i + 1,
			RoomType:      r.Code,
			RoomName:      r.Name,
			RackRate:      r.RackRate,
			FloorCategory: r.FloorCategory,
			MaxOccupancy:  r.MaxOccupancy,
		})
	}

	return rooms
}

// BuildChannelDimension emits the configured channels keyed by position.
func BuildChannelDimension(tables reference.Tables) []models.ChannelDimension {
	channels := make([]models.ChannelDimension, 0, len(tables.Channels))

	for i, c := range tables.Channels {
		channels = append(channels, models.ChannelDimension{
			ChannelKey:    i + 1,
			ChannelName:   c.Name,
			Category:      c.Category,
			CommissionPct: c.CommissionPct,
		})
	}

	return channels
}

// BuildRateCodeDimension emits the configured rate codes keyed by position.
func BuildRateCodeDimension(tables reference.Tables) []models.RateCodeDimension {
	codes := make([]models.RateCodeDimension, 0, len(tables.RateCodes))

	for i, rc := range tables.RateCodes {
		codes = append(codes, models.RateCodeDimension{
			RateKey:     i + 1,
			RateCode:    rc.Code,
			Description: rc.Description,
			DiscountPct: rc.DiscountPct,
		})
	}

	return codes
}

// BuildDateDimension returns one row per calendar day of year.
func BuildDateDimension(year int) []models.DateDimension {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	dates := make([]models.DateDimension, 0, 366)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		weekday := d.Weekday()

		dates = append(dates, models.DateDimension{
			DateKey:   DateKey(d),
			Date:      d,
			Year:      d.Year(),
			Quarter:   (int(d.Month())-1)/3 + 1,
			Month:     int(d.Month()),
			Day:       d.Day(),
			Weekday:   weekday.String(),
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
			Season:    Season(d.Month()),
		})
	}

	return dates
}

// DateKey formats t as the integer YYYYMMDD.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Season buckets a month into a meteorological season.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}
