package booking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"umrahstay/internal/domain"
	"umrahstay/internal/pkg/utils"
)

// Caller identifies who is acting on bookings.
type Caller struct {
	UserID int64
	Admin  bool
}

type Service struct {
	repo     Repository
	users    UserLookup
	notifier Notifier
}

// NewService wires the booking service. users and notifier may be nil.
func NewService(repo Repository, users UserLookup, notifier Notifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("%w: checkIn must be a date (YYYY-MM-DD)", ErrValidation)
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("%w: checkOut must be a date (YYYY-MM-DD)", ErrValidation)
	}
	if checkOut.Before(checkIn) {
		return nil, fmt.Errorf("%w: checkOut must not be before checkIn", ErrValidation)
	}

	room, err := s.repo.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if room.Status == domain.RoomInactive {
		return nil, fmt.Errorf("%w: room is not open for booking", ErrValidation)
	}

	adults := req.Adults
	if adults < 1 {
		adults = 1
	}

	b := &domain.Booking{
		Reference:       uuid.New().String(),
		UserID:          userID,
		HotelID:         room.HotelID,
		RoomID:          room.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          adults,
		Children:        req.Children,
		TotalPrice:      TotalPrice(room.Price, checkIn, checkOut),
		Status:          domain.BookingPending,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
		Companions:      req.companions(),
	}
	s.fillContact(ctx, b)

	if err := s.repo.CreateIfFree(ctx, b); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(*b)
	}
	return b, nil
}

// fillContact copies missing guest details from the caller's profile.
func (s *Service) fillContact(ctx context.Context, b *domain.Booking) {
	if s.users == nil || (b.GuestName != "" && b.GuestEmail != "" && b.GuestPhone != "") {
		return
	}

	u, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		log.Printf("booking_contact_lookup_failed user_id=%d error=%q", b.UserID, err.Error())
		return
	}
	if b.GuestName == "" {
		b.GuestName = u.Name
	}
	if b.GuestEmail == "" {
		b.GuestEmail = u.Email
	}
	if b.GuestPhone == "" {
		b.GuestPhone = u.Phone
	}
}

// List returns the caller's bookings, or every booking for an admin.
func (s *Service) List(ctx context.Context, caller Caller) ([]domain.Booking, error) {
	f := ListFilter{UserID: caller.UserID}
	if caller.Admin {
		f.UserID = 0
	}
	return s.repo.List(ctx, f)
}

// Get hides bookings that belong to someone else behind ErrNotFound.
func (s *Service) Get(ctx context.Context, caller Caller, id int64) (*domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Admin && b.UserID != caller.UserID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	b, prev, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingStatusChanged(*b, prev)
	}
	return b, nil
}

// Cancel lets the owner withdraw a pending or confirmed booking.
func (s *Service) Cancel(ctx context.Context, caller Caller, id int64) (*domain.Booking, error) {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return nil, err
	}

	b, err := s.UpdateStatus(ctx, id, domain.BookingCancelled)
	if errors.Is(err, ErrInvalidStatusTransition) {
		return nil, fmt.Errorf("%w: booking is already cancelled", ErrInvalidStatusTransition)
	}
	return b, err
}
