package notification

import (
	"time"

	"umrahstay/internal/domain"
	"umrahstay/internal/pkg/utils"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
)

// Event is the JSON payload put on the notification queue. A mail worker
// consumes it and emails the guest.
type Event struct {
	Type           string  `json:"type"`
	BookingID      int64   `json:"booking_id"`
	Reference      string  `json:"reference"`
	UserID         int64   `json:"user_id"`
	HotelID        int64   `json:"hotel_id"`
	RoomID         int64   `json:"room_id"`
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	TotalPrice     float64 `json:"total_price"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	GuestName      string  `json:"guest_name"`
	GuestEmail     string  `json:"guest_email"`
	OccurredAt     string  `json:"occurred_at"`
}

func bookingEvent(eventType string, b domain.Booking) Event {
	return Event{
		Type:       eventType,
		BookingID:  b.ID,
		Reference:  b.Reference,
		UserID:     b.UserID,
		HotelID:    b.HotelID,
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn.UTC().Format(utils.DateLayout),
		CheckOut:   b.CheckOut.UTC().Format(utils.DateLayout),
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
