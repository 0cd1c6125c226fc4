package schema

import (
	"database/sql"
	"testing"
	"time"

	"hotelstar/internal/models"
	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
)

func tier(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func TestBuildGuestDimension_FirstSeenOrder(t *testing.T) {
	records := []models.Booking{
		{Row: 1, GuestName: "Zoe Park", LoyaltyTier: tier("Gold"), GuestType: "Business"},
		{Row: 2, GuestName: "Adam Li", LoyaltyTier: tier("None"), GuestType: "Leisure"},
		{Row: 3, GuestName: "Zoe Park", LoyaltyTier: tier("Gold"), GuestType: "Business"},
	}

	guests, issues := BuildGuestDimension(records)
	if len(issues) != 0 {
		t.Errorf("unexpected collisions: %+v", issues)
	}

	if len(guests) != 2 {
		t.Fatalf("guests = %d, want 2", len(guests))
	}

	if guests[0].GuestKey != 1 || guests[0].GuestName != "Zoe Park" {
		t.Errorf("guests[0] = %+v", guests[0])
	}

	if guests[1].GuestKey != 2 || guests[1].GuestName != "Adam Li" {
		t.Errorf("guests[1] = %+v", guests[1])
	}
}

func TestBuildGuestDimension_CollisionFirstWins(t *testing.T) {
	records := []models.Booking{
		{Row: 1, GuestName: "Sam Lee", LoyaltyTier: tier("Silver"), GuestType: "Leisure"},
		{Row: 2, GuestName: "Sam Lee", LoyaltyTier: tier("Platinum"), GuestType: "Business"},
	}

	guests, issues := BuildGuestDimension(records)

	if len(guests) != 1 || guests[0].LoyaltyTier != "Silver" || guests[0].GuestType != "Leisure" {
		t.Errorf("guests = %+v, want first occurrence", guests)
	}

	if len(issues) != 1 || issues[0].Kind != quality.KindGuestNameCollision || issues[0].Row != 2 {
		t.Errorf("issues = %+v, want one collision on row 2", issues)
	}
}

func TestStaticDimensions_DenseKeys(t *testing.T) {
	tables := reference.Default()

	rooms := BuildRoomDimension(tables)
	for i, r := range rooms {
		if r.RoomKey != i+1 {
			t.Errorf("rooms[%d].RoomKey = %d", i, r.RoomKey)
		}
	}

	if rooms[0].RoomType != "STD" || !rooms[4].RackRate.Equal(tables.RackRates["STE"]) {
		t.Errorf("unexpected rooms: %+v", rooms)
	}

	channels := BuildChannelDimension(tables)
	if len(channels) != 7 || channels[6].ChannelKey != 7 {
		t.Errorf("channels = %+v", channels)
	}

	codes := BuildRateCodeDimension(tables)
	if len(codes) != 6 || codes[0].RateCode != "BAR" || codes[5].RateKey != 6 {
		t.Errorf("rate codes = %+v", codes)
	}
}

func TestBuildDateDimension(t *testing.T) {
	dates := BuildDateDimension(2025)
	if len(dates) != 365 {
		t.Fatalf("dates = %d, want 365", len(dates))
	}

	if leap := BuildDateDimension(2024); len(leap) != 366 {
		t.Errorf("leap year dates = %d, want 366", len(leap))
	}

	first := dates[0]
	if first.DateKey != 20250101 || first.Weekday != "Wednesday" || first.IsWeekend || first.Season != SeasonWinter || first.Quarter != 1 {
		t.Errorf("first = %+v", first)
	}

	// 2025-07-05 is a Saturday.
	jul5 := dates[185]
	if jul5.DateKey != 20250705 || !jul5.IsWeekend || jul5.Season != SeasonSummer || jul5.Quarter != 3 || jul5.Day != 5 {
		t.Errorf("jul5 = %+v", jul5)
	}

	seen := make(map[int]bool, len(dates))
	for _, d := range dates {
		if seen[d.DateKey] {
			t.Fatalf("duplicate date key %d", d.DateKey)
		}

		seen[d.DateKey] = true
	}
}

func TestSeason(t *testing.T) {
	want := map[time.Month]string{
		time.January: SeasonWinter, time.February: SeasonWinter, time.March: SeasonSpring,
		time.May: SeasonSpring, time.June: SeasonSummer, time.August: SeasonSummer,
		time.September: SeasonFall, time.November: SeasonFall, time.December: SeasonWinter,
	}

	for m, s := range want {
		if got := Season(m); got != s {
			t.Errorf("Season(%s) = %s, want %s", m, got, s)
		}
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)); got != 20250305 {
		t.Errorf("DateKey = %d, want 20250305", got)
	}
}
