package normalizer

import "hotelstar/internal/models"

// Deduplicate removes bookings identical in every normalized field to an
// earlier booking. Survivors keep their input order. It must run before
// imputation so derived values cannot create matches.
func Deduplicate(records []models.Booking) (unique []models.Booking, removed int) {
	seen := make(map[string]struct{}, len(records))
	unique = make([]models.Booking, 0, len(records))

	for i := range records {
		key := records[i].Key()
		if _, dup := seen[key]; dup {
			removed++
			continue
		}

		seen[key] = struct{}{}

		unique = append(unique, records[i])
	}

	return unique, removed
}
