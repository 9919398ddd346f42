package booking

import "umrahstay/internal/domain"

type CompanionRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Relationship string `json:"relationship" validate:"max=64"`
	Age          int    `json:"age" validate:"gte=0,lte=130"`
}

type CreateBookingRequest struct {
	RoomID          int64              `json:"roomId" validate:"required,gt=0"`
	CheckIn         string             `json:"checkIn" validate:"required"`
	CheckOut        string             `json:"checkOut" validate:"required"`
	Adults          int                `json:"adults" validate:"gte=0,lte=20"`
	Children        int                `json:"children" validate:"gte=0,lte=20"`
	GuestName       string             `json:"guestName" validate:"max=255"`
	GuestEmail      string             `json:"guestEmail" validate:"omitempty,email"`
	GuestPhone      string             `json:"guestPhone" validate:"max=32"`
	SpecialRequests string             `json:"specialRequests" validate:"max=2000"`
	Companions      []CompanionRequest `json:"companions" validate:"omitempty,dive"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED"`
}

func (r CreateBookingRequest) companions() []domain.Companion {
	out := make([]domain.Companion, 0, len(r.Companions))
	for _, c := range r.Companions {
		out = append(out, domain.Companion{Name: c.Name, Relationship: c.Relationship, Age: c.Age})
	}
	return out
}
