package model

import "time"

// Locations lists the fixed campus-area codes a mess group may use.
// Filtering and creation both validate against this set.
var Locations = []string{"mohabolipur", "bcs-gali", "kornai"}

// Categories lists the allowed mess categories.
var Categories = []string{"boys", "girls"}

// ValidLocation reports whether loc is one of the fixed location codes.
func ValidLocation(loc string) bool {
	for _, l := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// ValidCategory reports whether cat is an allowed category.
func ValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// MessGroup represents a row in the `mess_groups` table: one listing
// owned by a user. Seat counts and prices exist independently for
// single and double rooms. Amenities are persisted as a JSON array in
// a TEXT column. IsActive false marks the listing as soft-deleted;
// such rows are excluded from every public query.
type MessGroup struct {
	ID           uint64    // mess_groups.id
	OwnerID      uint64    // mess_groups.owner_id
	Name         string    // mess_groups.name
	Location     string    // mess_groups.location (one of Locations)
	Category     string    // mess_groups.category (one of Categories)
	Description  string    // mess_groups.description
	SingleSeats  uint32    // mess_groups.single_seats
	SinglePrice  float64   // mess_groups.single_price
	DoubleSeats  uint32    // mess_groups.double_seats
	DoublePrice  float64   // mess_groups.double_price
	Rating       float64   // mess_groups.rating (seeded at 4.0 on create)
	Amenities    []string  // mess_groups.amenities (JSON text)
	ContactPhone string    // mess_groups.contact_phone
	ContactEmail string    // mess_groups.contact_email
	Address      string    // mess_groups.address
	IsActive     bool      // mess_groups.is_active
	CreatedAt    time.Time // mess_groups.created_at
	UpdatedAt    time.Time // mess_groups.updated_at
}

// DefaultRating is the cold-start rating assigned to new listings so
// they never render as zero stars.
const DefaultRating = 4.0
