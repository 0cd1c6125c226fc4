package warehouse

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"hotelstar/internal/models"
)

// FileExt is the extension of every CSV table file.
const FileExt = ".csv"

var (
	factHeader = []string{
		"fact_id", "booking_id", "guest_key", "room_key", "date_key", "channel_key", "rate_key",
		"check_in_date", "check_out_date", "nights", "daily_rate", "total_revenue",
		"lead_days", "num_guests", "is_cancelled",
	}
	guestHeader    = []string{"guest_key", "guest_name", "loyalty_tier", "guest_type"}
	roomHeader     = []string{"room_key", "room_type", "room_name", "floor_category", "rack_rate", "max_occupancy"}
	dateHeader     = []string{"date_key", "date", "year", "quarter", "month", "day", "weekday", "is_weekend", "season"}
	channelHeader  = []string{"channel_key", "channel_name", "category", "commission_pct"}
	rateCodeHeader = []string{"rate_key", "rate_code", "description", "discount_pct"}
)

// CSVSink writes one CSV file per table into a directory.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a sink rooted at dir.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

// Name returns the sink name.
func (s *CSVSink) Name() string { return SinkCSV }

// Write encodes every table and overwrites the files in the sink directory.
func (s *CSVSink) Write(ctx context.Context, star *models.StarSchema) error {
	tables, err := EncodeTables(star)
	if err != nil {
		return err
	}

	return s.writeEncoded(ctx, tables)
}

// writeEncoded writes tables already rendered by EncodeTables.
func (s *CSVSink) writeEncoded(ctx context.Context, tables map[string][]byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, name := range Tables {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ok := tables[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingTable, name)
		}

		path := filepath.Join(s.dir, name+FileExt)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return nil
}

// EncodeTables renders each table of star as CSV bytes keyed by table name.
// The encoding is deterministic for a given schema.
func EncodeTables(star *models.StarSchema) (map[string][]byte, error) {
	if star == nil {
		return nil, ErrNilSchema
	}

	tables := make(map[string][]byte, len(Tables))

	encoders := map[string]func() [][]string{
		TableFacts:     func() [][]string { return factRows(star.Facts) },
		TableGuests:    func() [][]string { return guestRows(star.Guests) },
		TableRooms:     func() [][]string { return roomRows(star.Rooms) },
		TableDates:     func() [][]string { return dateRows(star.Dates) },
		TableChannels:  func() [][]string { return channelRows(star.Channels) },
		TableRateCodes: func() [][]string { return rateCodeRows(star.RateCodes) },
	}

	for _, name := range Tables {
		data, err := encode(encoders[name]())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}

		tables[name] = data
	}

	return tables, nil
}

// EncodeRows renders a header and rows as CSV.
func EncodeRows(header []string, rows [][]string) ([]byte, error) {
	return encode(append([][]string{header}, rows...))
}

func encode(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func factRows(facts []models.BookingFact) [][]string {
	rows := make([][]string, 0, len(facts)+1)
	rows = append(rows, factHeader)

	for i := range facts {
		f := &facts[i]
		rows = append(rows, []string{
			strconv.Itoa(f.FactID),
			f.BookingID,
			nullInt(f.GuestKey),
			nullInt(f.RoomKey),
			nullInt(f.DateKey),
			nullInt(f.ChannelKey),
			nullInt(f.RateKey),
			date(f.CheckIn),
			date(f.CheckOut),
			strconv.Itoa(f.Nights),
			nullMoney(f.DailyRate),
			nullMoney(f.TotalRevenue),
			nullInt(f.LeadDays),
			nullInt(f.NumGuests),
			strconv.FormatBool(f.IsCancelled),
		})
	}

	return rows
}

func guestRows(guests []models.GuestDimension) [][]string {
	rows := make([][]string, 0, len(guests)+1)
	rows = append(rows, guestHeader)

	for _, g := range guests {
		rows = append(rows, []string{strconv.Itoa(g.GuestKey), g.GuestName, g.LoyaltyTier, g.GuestType})
	}

	return rows
}

func roomRows(rooms []models.RoomDimension) [][]string {
	rows := make([][]string, 0, len(rooms)+1)
	rows = append(rows, roomHeader)

	for _, r := range rooms {
		rows = append(rows, []string{
			strconv.Itoa(r.RoomKey), r.RoomType, r.RoomName, r.FloorCategory,
			r.RackRate.StringFixed(2), strconv.Itoa(r.MaxOccupancy),
		})
	}

	return rows
}

func dateRows(dates []models.DateDimension) [][]string {
	rows := make([][]string, 0, len(dates)+1)
	rows = append(rows, dateHeader)

	for _, d := range dates {
		rows = append(rows, []string{
			strconv.Itoa(d.DateKey), date(d.Date), strconv.Itoa(d.Year), strconv.Itoa(d.Quarter),
			strconv.Itoa(d.Month), strconv.Itoa(d.Day), d.Weekday, strconv.FormatBool(d.IsWeekend), d.Season,
		})
	}

	return rows
}

func channelRows(channels []models.ChannelDimension) [][]string {
	rows := make([][]string, 0, len(channels)+1)
	rows = append(rows, channelHeader)

	for _, c := range channels {
		rows = append(rows, []string{strconv.Itoa(c.ChannelKey), c.ChannelName, c.Category, c.CommissionPct.StringFixed(2)})
	}

	return rows
}

func rateCodeRows(codes []models.RateCodeDimension) [][]string {
	rows := make([][]string, 0, len(codes)+1)
	rows = append(rows, rateCodeHeader)

	for _, rc := range codes {
		rows = append(rows, []string{strconv.Itoa(rc.RateKey), rc.RateCode, rc.Description, rc.DiscountPct.StringFixed(2)})
	}

	return rows
}

func nullInt(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}

	return strconv.FormatInt(v.Int64, 10)
}

func nullMoney(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}

	return v.Decimal.StringFixed(2)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(models.DateLayout)
}
