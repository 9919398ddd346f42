package booking

import (
	"math"
	"time"

	"umrahstay/internal/domain"
	"umrahstay/internal/domain/pricing"
)

// Stay is a check-in/check-out pair. CheckOut is the departure day.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether an existing stay collides with a proposed one:
// the existing check-in falls in [in, out), the existing check-out falls in
// (in, out], or the existing stay encloses the proposed one.
func Overlaps(existing, proposed Stay) bool {
	ei, eo := existing.CheckIn, existing.CheckOut
	pi, po := proposed.CheckIn, proposed.CheckOut

	if !ei.Before(pi) && ei.Before(po) {
		return true
	}
	if eo.After(pi) && !eo.After(po) {
		return true
	}
	return !ei.After(pi) && !eo.Before(po)
}

// FirstConflict returns the first CONFIRMED booking in existing that
// overlaps proposed, skipping the booking with id skipID.
func FirstConflict(existing []domain.Booking, proposed Stay, skipID int64) (domain.Booking, bool) {
	for _, b := range existing {
		if b.ID == skipID || b.Status != domain.BookingConfirmed {
			continue
		}
		if Overlaps(Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}, proposed) {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// Nights counts started days between check-in and check-out, at least one.
func Nights(checkIn, checkOut time.Time) int {
	n := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

func TotalPrice(roomPrice float64, checkIn, checkOut time.Time) float64 {
	return pricing.StayTotal(roomPrice, Nights(checkIn, checkOut))
}

var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:   {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed: {domain.BookingCancelled},
}

func CanTransition(from, to domain.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
