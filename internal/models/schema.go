package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// GuestDimension is one row of dim_guest.
type GuestDimension struct {
	GuestKey    int `gorm:"primaryKey;autoIncrement:false"`
	GuestName   string
	LoyaltyTier string
	GuestType   string
}

// TableName returns the warehouse table name.
func (GuestDimension) TableName() string { return "dim_guest" }

// RoomDimension is one row of dim_room.
type RoomDimension struct {
	RoomKey       int `gorm:"primaryKey;autoIncrement:false"`
	RoomType      string
	RoomName      string
	FloorCategory string
	RackRate      decimal.Decimal `gorm:"type:decimal(12,2)"`
	MaxOccupancy  int
}

// TableName returns the warehouse table name.
func (RoomDimension) TableName() string { return "dim_room" }

// DateDimension is one row of dim_date.
type DateDimension struct {
	DateKey   int `gorm:"primaryKey;autoIncrement:false"`
	Date      time.Time
	Year      int
	Quarter   int
	Month     int
	Day       int
	Weekday   string
	IsWeekend bool
	Season    string
}

// TableName returns the warehouse table name.
func (DateDimension) TableName() string { return "dim_date" }

// ChannelDimension is one row of dim_channel.
type ChannelDimension struct {
	ChannelKey    int `gorm:"primaryKey;autoIncrement:false"`
	ChannelName   string
	Category      string
	CommissionPct decimal.Decimal `gorm:"type:decimal(5,2)"`
}

// TableName returns the warehouse table name.
func (ChannelDimension) TableName() string { return "dim_channel" }

// RateCodeDimension is one row of dim_rate_code.
type RateCodeDimension struct {
	RateKey     int `gorm:"primaryKey;autoIncrement:false"`
	RateCode    string
	Description string
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2)"`
}

// TableName returns the warehouse table name.
func (RateCodeDimension) TableName() string { return "dim_rate_code" }

// BookingFact is one row of fact_bookings. Foreign keys are null when the
// natural key found no dimension row.
type BookingFact struct {
	FactID       int `gorm:"primaryKey;autoIncrement:false"`
	BookingID    string
	GuestKey     sql.NullInt64
	RoomKey      sql.NullInt64
	DateKey      sql.NullInt64
	ChannelKey   sql.NullInt64
	RateKey      sql.NullInt64
	CheckIn      time.Time `gorm:"column:check_in_date"`
	CheckOut     time.Time `gorm:"column:check_out_date"`
	Nights       int
	DailyRate    decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	TotalRevenue decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	LeadDays     sql.NullInt64
	NumGuests    sql.NullInt64
	IsCancelled  bool
}

// TableName returns the warehouse table name.
func (BookingFact) TableName() string { return "fact_bookings" }

// StarSchema is the complete pipeline output: one fact table and five dimensions.
type StarSchema struct {
	Facts     []BookingFact
	Guests    []GuestDimension
	Rooms     []RoomDimension
	Dates     []DateDimension
	Channels  []ChannelDimension
	RateCodes []RateCodeDimension
}
