// Package warehouse persists a built star schema to its output sinks.
package warehouse

import (
	"context"
	"errors"

	"hotelstar/internal/models"
)

// Sink names accepted in configuration.
const (
	SinkCSV    = "csv"
	SinkSQLite = "sqlite"
)

// Table names in output order.
const (
	TableFacts     = "fact_bookings"
	TableGuests    = "dim_guest"
	TableRooms     = "dim_room"
	TableDates     = "dim_date"
	TableChannels  = "dim_channel"
	TableRateCodes = "dim_rate_code"
)

// Tables lists every output table, facts first.
var Tables = []string{TableFacts, TableGuests, TableRooms, TableDates, TableChannels, TableRateCodes}

// Sink errors.
var (
	ErrNilSchema    = errors.New("star schema is nil")
	ErrMissingTable = errors.New("encoded table missing")
	ErrUnknownSink  = errors.New("unknown sink")
)

// Sink writes all six tables of a star schema. A write replaces whatever the
// sink held from a previous run.
type Sink interface {
	Name() string
	Write(ctx context.Context, star *models.StarSchema) error
}

var (
	_ Sink = (*CSVSink)(nil)
	_ Sink = (*SQLiteSink)(nil)
)
