package warehouse

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotelstar/internal/models"
)

const batchSize = 500

// SQLiteSink rebuilds the star schema tables in a SQLite database.
type SQLiteSink struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at dsn.
func OpenSQLite(dsn string) (*SQLiteSink, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return NewSQLiteSink(db), nil
}

// NewSQLiteSink wraps an existing connection.
func NewSQLiteSink(db *gorm.DB) *SQLiteSink {
	return &SQLiteSink{db: db}
}

// Name returns the sink name.
func (s *SQLiteSink) Name() string { return SinkSQLite }

// DB exposes the underlying connection.
func (s *SQLiteSink) DB() *gorm.DB { return s.db }

// Write drops and recreates the six tables and inserts every row in one
// transaction. On failure the previous contents are left untouched.
func (s *SQLiteSink) Write(ctx context.Context, star *models.StarSchema) error {
	if star == nil {
		return ErrNilSchema
	}

	tables := schemaModels()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(tables...); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}

		if err := tx.AutoMigrate(tables...); err != nil {
			return fmt.Errorf("failed to migrate tables: %w", err)
		}

		inserts := []struct {
			name string
			rows any
			n    int
		}{
			{TableGuests, &star.Guests, len(star.Guests)},
			{TableRooms, &star.Rooms, len(star.Rooms)},
			{TableDates, &star.Dates, len(star.Dates)},
			{TableChannels, &star.Channels, len(star.Channels)},
			{TableRateCodes, &star.RateCodes, len(star.RateCodes)},
			{TableFacts, &star.Facts, len(star.Facts)},
		}

		for _, in := range inserts {
			if in.n == 0 {
				continue
			}

			if err := tx.CreateInBatches(in.rows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert %s: %w", in.name, err)
			}
		}

		return nil
	})
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func schemaModels() []any {
	return []any{
		&models.BookingFact{},
		&models.GuestDimension{},
		&models.RoomDimension{},
		&models.DateDimension{},
		&models.ChannelDimension{},
		&models.RateCodeDimension{},
	}
}
