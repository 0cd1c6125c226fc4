package schema

import (
	"database/sql"

	"hotelstar/internal/models"
)

// Assembler resolves natural keys of clean bookings to dimension surrogate keys.
type Assembler struct {
	guests   map[string]int
	rooms    map[string]int
	channels map[string]int
	rates    map[string]int
}

// NewAssembler indexes the dimension tables by natural key.
func NewAssembler(guests []models.GuestDimension, rooms []models.RoomDimension,
	channels []models.ChannelDimension, rates []models.RateCodeDimension,
) *Assembler {
	a := &Assembler{
		guests:   make(map[string]int, len(guests)),
		rooms:    make(map[string]int, len(rooms)),
		channels: make(map[string]int, len(channels)),
		rates:    make(map[string]int, len(rates)),
	}

	for _, g := range guests {
		a.guests[g.GuestName] = g.GuestKey
	}

	for _, r := range rooms {
		a.rooms[r.RoomType] = r.RoomKey
	}

	for _, c := range channels {
		a.channels[c.ChannelName] = c.ChannelKey
	}

	for _, rc := range rates {
		a.rates[rc.RateCode] = rc.RateKey
	}

	return a
}

// Assemble produces one fact per booking in input order. A natural key with
// no dimension row yields a null foreign key; the row is kept.
func (a *Assembler) Assemble(records []models.Booking) []models.BookingFact {
	facts := make([]models.BookingFact, 0, len(records))

	for i := range records {
		b := &records[i]

		fact := models.BookingFact{
			FactID:       i + 1,
			BookingID:    b.ConfirmationCode,
			GuestKey:     lookup(a.guests, b.GuestName),
			RoomKey:      lookup(a.rooms, b.RoomType),
			ChannelKey:   lookup(a.channels, b.BookingChannel),
			RateKey:      lookup(a.rates, b.RateCode),
			CheckIn:      b.CheckIn,
			CheckOut:     b.CheckOut,
			Nights:       b.Nights,
			DailyRate:    b.DailyRate,
			TotalRevenue: b.TotalRevenue,
			LeadDays:     b.LeadDays,
			NumGuests:    b.NumGuests,
			IsCancelled:  b.IsCancelled,
		}

		if !b.CheckIn.IsZero() {
			fact.DateKey = sql.NullInt64{Int64: int64(DateKey(b.CheckIn)), Valid: true}
		}

		facts = append(facts, fact)
	}

	return facts
}

// NullForeignKeys counts the null foreign keys across facts.
func NullForeignKeys(facts []models.BookingFact) int {
	n := 0

	for i := range facts {
		for _, k := range []sql.NullInt64{facts[i].GuestKey, facts[i].RoomKey, facts[i].DateKey, facts[i].ChannelKey, facts[i].RateKey} {
			if !k.Valid {
				n++
			}
		}
	}

	return n
}

func lookup(index map[string]int, key string) sql.NullInt64 {
	if v, ok := index[key]; ok {
		return sql.NullInt64{Int64: int64(v), Valid: true}
	}

	return sql.NullInt64{}
}
