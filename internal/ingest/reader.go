// Package ingest reads the raw property-management booking export.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hotelstar/internal/models"
)

// Ingest errors.
var (
	ErrEmptyInput    = errors.New("input has no header row")
	ErrMissingColumn = errors.New("missing required column")
)

// Column names of the raw export.
const (
	ColConfirmationCode = "confirmation_code"
	ColGuestName        = "guest_name"
	ColLoyaltyTier      = "loyalty_tier"
	ColRoomType         = "room_type"
	ColRateCode         = "rate_code"
	ColCheckInDate      = "check_in_date"
	ColCheckOutDate     = "check_out_date"
	ColNights           = "nights"
	ColDailyRate        = "daily_rate"
	ColTotalRevenue     = "total_revenue"
	ColBookingChannel   = "booking_channel"
	ColIsCancelled      = "is_cancelled"
	ColGuestType        = "guest_type"
	ColNumGuests        = "num_guests"
	ColLeadDays         = "lead_days"
)

// Columns lists every required column. Order in the file is irrelevant.
var Columns = []string{
	ColConfirmationCode,
	ColGuestName,
	ColLoyaltyTier,
	ColRoomType,
	ColRateCode,
	ColCheckInDate,
	ColCheckOutDate,
	ColNights,
	ColDailyRate,
	ColTotalRevenue,
	ColBookingChannel,
	ColIsCancelled,
	ColGuestType,
	ColNumGuests,
	ColLeadDays,
}

// ReadFile reads a raw export from disk.
func ReadFile(path string) ([]models.RawBooking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a raw export. Column names must match exactly; extra columns are ignored.
func ReadCSV(r io.Reader) ([]models.RawBooking, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var rows []models.RawBooking

	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", n, err)
		}

		get := func(col string) string {
			return record[index[col]]
		}

		rows = append(rows, models.RawBooking{
			Row:              n,
			ConfirmationCode: get(ColConfirmationCode),
			GuestName:        get(ColGuestName),
			LoyaltyTier:      get(ColLoyaltyTier),
			RoomType:         get(ColRoomType),
			RateCode:         get(ColRateCode),
			CheckInDate:      get(ColCheckInDate),
			CheckOutDate:     get(ColCheckOutDate),
			Nights:           get(ColNights),
			DailyRate:        get(ColDailyRate),
			TotalRevenue:     get(ColTotalRevenue),
			BookingChannel:   get(ColBookingChannel),
			IsCancelled:      get(ColIsCancelled),
			GuestType:        get(ColGuestType),
			NumGuests:        get(ColNumGuests),
			LeadDays:         get(ColLeadDays),
		})
	}

	return rows, nil
}
