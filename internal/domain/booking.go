package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type Companion struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Age          int    `json:"age,omitempty"`
}

type Booking struct {
	ID              int64         `json:"id"`
	Reference       string        `json:"reference"`
	UserID          int64         `json:"userId"`
	HotelID         int64         `json:"hotelId"`
	RoomID          int64         `json:"roomId"`
	CheckIn         time.Time     `json:"checkIn"`
	CheckOut        time.Time     `json:"checkOut"`
	Adults          int           `json:"adults"`
	Children        int           `json:"children"`
	TotalPrice      float64       `json:"totalPrice"`
	Status          BookingStatus `json:"status"`
	GuestName       string        `json:"guestName"`
	GuestEmail      string        `json:"guestEmail"`
	GuestPhone      string        `json:"guestPhone,omitempty"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	Companions      []Companion   `json:"companions"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	HotelName string `json:"hotelName,omitempty"`
	RoomName  string `json:"roomName,omitempty"`
}
