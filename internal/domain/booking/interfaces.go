package booking

import (
	"context"

	"umrahstay/internal/domain"
)

// RoomInfo is what booking needs to know about a room.
type RoomInfo struct {
	ID      int64
	HotelID int64
	Price   float64
	Status  domain.RoomStatus
}

// ListFilter narrows List. A zero UserID lists every user's bookings.
type ListFilter struct {
	UserID int64
}

type Repository interface {
	GetRoom(ctx context.Context, roomID int64) (*RoomInfo, error)
	// CreateIfFree inserts b unless a CONFIRMED booking on the same room
	// overlaps it. The check and the insert share one transaction.
	CreateIfFree(ctx context.Context, b *domain.Booking) error
	// UpdateStatus moves a booking to status, rechecking conflicts when
	// confirming. It returns the updated booking and the previous status.
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, domain.BookingStatus, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f ListFilter) ([]domain.Booking, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Notifier interface {
	BookingCreated(b domain.Booking)
	BookingStatusChanged(b domain.Booking, from domain.BookingStatus)
}
