package warehouse

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotelstar/internal/models"
	"hotelstar/internal/reference"
	"hotelstar/internal/schema"
)

func sampleStar(t *testing.T) *models.StarSchema {
	t.Helper()

	tables := reference.Default()

	return &models.StarSchema{
		Facts: []models.BookingFact{
			{
				FactID:       1,
				BookingID:    "CNF-1001",
				GuestKey:     sql.NullInt64{Int64: 1, Valid: true},
				RoomKey:      sql.NullInt64{Int64: 1, Valid: true},
				DateKey:      sql.NullInt64{Int64: 20250305, Valid: true},
				ChannelKey:   sql.NullInt64{Int64: 4, Valid: true},
				RateKey:      sql.NullInt64{Int64: 2, Valid: true},
				CheckIn:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
				CheckOut:     time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
				Nights:       2,
				DailyRate:    decimal.NewNullDecimal(decimal.RequireFromString("160.65")),
				TotalRevenue: decimal.NewNullDecimal(decimal.RequireFromString("321.3")),
				LeadDays:     sql.NullInt64{Int64: 14, Valid: true},
				NumGuests:    sql.NullInt64{Int64: 2, Valid: true},
			},
			{
				FactID:      2,
				BookingID:   "CNF-1002",
				GuestKey:    sql.NullInt64{Int64: 2, Valid: true},
				CheckIn:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
				CheckOut:    time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
				Nights:      1,
				DailyRate:   decimal.NewNullDecimal(decimal.NewFromInt(99)),
				IsCancelled: true,
			},
		},
		Guests: []models.GuestDimension{
			{GuestKey: 1, GuestName: "Jane Doe", LoyaltyTier: "Gold", GuestType: "Leisure"},
			{GuestKey: 2, GuestName: "Smith, Al", LoyaltyTier: "None", GuestType: "Business"},
		},
		Rooms:     schema.BuildRoomDimension(tables),
		Dates:     schema.BuildDateDimension(2025),
		Channels:  schema.BuildChannelDimension(tables),
		RateCodes: schema.BuildRateCodeDimension(tables),
	}
}

func TestEncodeTables_Facts(t *testing.T) {
	tables, err := EncodeTables(sampleStar(t))
	if err != nil {
		t.Fatalf("EncodeTables returned unexpected error: %v", err)
	}

	if len(tables) != len(Tables) {
		t.Fatalf("tables = %d, want %d", len(tables), len(Tables))
	}

	lines := strings.Split(strings.TrimRight(string(tables[TableFacts]), "\n"), "\n")

	expected := []string{
		"fact_id,booking_id,guest_key,room_key,date_key,channel_key,rate_key,check_in_date,check_out_date,nights,daily_rate,total_revenue,lead_days,num_guests,is_cancelled",
		"1,CNF-1001,1,1,20250305,4,2,2025-03-05,2025-03-07,2,160.65,321.30,14,2,false",
		"2,CNF-1002,2,,,,,2025-04-01,2025-04-02,1,99.00,,,,true",
	}

	if len(lines) != len(expected) {
		t.Fatalf("lines = %d, want %d:\n%s", len(lines), len(expected), tables[TableFacts])
	}

	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d:\ngot:  %s\nwant: %s", i, lines[i], expected[i])
		}
	}
}

func TestEncodeTables_Dimensions(t *testing.T) {
	tables, err := EncodeTables(sampleStar(t))
	if err != nil {
		t.Fatalf("EncodeTables returned unexpected error: %v", err)
	}

	tests := []struct {
		table string
		line  int
		want  string
	}{
		{TableGuests, 2, `2,"Smith, Al",None,Business`},
		{TableRooms, 1, "1,STD,Standard Queen,Standard,189.00,2"},
		{TableDates, 1, "20250101,2025-01-01,2025,1,1,1,Wednesday,false,Winter"},
		{TableChannels, 3, "3,Booking.com,OTA,15.00"},
		{TableRateCodes, 6, "6,DISC,Promotional Discount,25.00"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			lines := strings.Split(string(tables[tt.table]), "\n")
			if tt.line >= len(lines) {
				t.Fatalf("table %s has %d lines", tt.table, len(lines))
			}

			if lines[tt.line] != tt.want {
				t.Errorf("line %d = %q, want %q", tt.line, lines[tt.line], tt.want)
			}
		})
	}

	if n := strings.Count(string(tables[TableDates]), "\n"); n != 366 {
		t.Errorf("dim_date lines = %d, want header + 365", n)
	}
}

func TestEncodeTables_Nil(t *testing.T) {
	if _, err := EncodeTables(nil); err != ErrNilSchema {
		t.Errorf("EncodeTables(nil) error = %v, want ErrNilSchema", err)
	}
}

func TestCSVSink_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewCSVSink(dir)

	star := sampleStar(t)
	if err := sink.Write(context.Background(), star); err != nil {
		t.Fatalf("Write returned unexpected error: %v", err)
	}

	first, err := os.ReadFile(filepath.Join(dir, TableFacts+FileExt))
	if err != nil {
		t.Fatalf("failed to read facts: %v", err)
	}

	for _, name := range Tables {
		if _, err := os.Stat(filepath.Join(dir, name+FileExt)); err != nil {
			t.Errorf("missing table file %s: %v", name, err)
		}
	}

	if err := sink.Write(context.Background(), star); err != nil {
		t.Fatalf("second Write returned unexpected error: %v", err)
	}

	second, err := os.ReadFile(filepath.Join(dir, TableFacts+FileExt))
	if err != nil {
		t.Fatalf("failed to read facts: %v", err)
	}

	if string(first) != string(second) {
		t.Error("rewriting the same schema changed the facts file")
	}
}

func TestCSVSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewCSVSink(t.TempDir()).Write(ctx, sampleStar(t)); err == nil {
		t.Error("Write expected context error")
	}
}
