// Package availability narrows hotel search results by stay dates and guest
// counts and annotates matching rooms with quotes.
package availability

import (
	"math"
	"time"

	"umrahstay/internal/domain"
	"umrahstay/internal/domain/pricing"
	"umrahstay/internal/pkg/utils"
)

// DateRange is a requested stay. CheckOut is exclusive.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Nights is the whole number of nights in the range, at least one.
func (r DateRange) Nights() int {
	d := utils.Day(r.CheckOut).Sub(utils.Day(r.CheckIn))
	n := int(math.Ceil(d.Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

// Within reports whether the range fits a window whose nil bounds are open.
func (r DateRange) Within(from, to *time.Time) bool {
	if from != nil && utils.Day(*from).After(utils.Day(r.CheckIn)) {
		return false
	}
	if to != nil && utils.Day(*to).Before(utils.Day(r.CheckOut)) {
		return false
	}
	return true
}

type GuestSpec struct {
	Adults   int
	Children int
	Rooms    int
}

type Query struct {
	Range  *DateRange
	Guests *GuestSpec
}

func (q Query) empty() bool {
	return q.Range == nil && (q.Guests == nil || q.Guests.Adults <= 0)
}

// AdultsPerRoom spreads adults evenly over the requested rooms, rounding up.
func AdultsPerRoom(adults, rooms int) int {
	if rooms < 1 {
		rooms = 1
	}
	if adults <= 0 {
		return 0
	}
	return (adults + rooms - 1) / rooms
}

// Filter returns copies of the hotels that satisfy q. A hotel passes the
// date rule when its own window contains the range or any active room's
// own window does, and the guest rule when any active room holds the
// adults-per-room count. Both rules apply when both are given.
//
// With an empty query the input slice is returned as is.
func Filter(hotels []domain.Hotel, q Query) []domain.Hotel {
	if q.empty() {
		return hotels
	}

	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		c, ok := evaluate(h, q)
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// Annotate returns a copy of h with every room annotated for q, whether or
// not the hotel would pass Filter. An empty query returns h unchanged.
func Annotate(h domain.Hotel, q Query) domain.Hotel {
	if q.empty() {
		return h
	}
	c, _ := evaluate(h, q)
	return c
}

func evaluate(h domain.Hotel, q Query) (domain.Hotel, bool) {
	perRoomAdults, perRoomChildren := 0, 0
	if q.Guests != nil {
		perRoomAdults = AdultsPerRoom(q.Guests.Adults, q.Guests.Rooms)
		perRoomChildren = AdultsPerRoom(q.Guests.Children, q.Guests.Rooms)
	}

	c := copyHotel(h)
	dateOK := q.Range == nil || q.Range.Within(h.AvailableFrom, h.AvailableTo)
	guestOK := perRoomAdults == 0

	for i := range c.Rooms {
		room := &c.Rooms[i]
		a := annotate(*room, q, perRoomAdults, perRoomChildren)
		room.Availability = &a

		if !room.IsActive() {
			continue
		}
		dateOK = dateOK || a.InWindow
		guestOK = guestOK || a.Fits
	}
	return c, dateOK && guestOK
}

// annotate evaluates one room against its own window. Unset room bounds are
// open; the hotel's window is not inherited.
func annotate(r domain.Room, q Query, adults, children int) domain.RoomAvailability {
	a := domain.RoomAvailability{Fits: true, InWindow: true}

	if adults > 0 {
		a.Fits = r.MaxAdults() >= adults
	}
	if q.Range != nil {
		a.InWindow = q.Range.Within(r.AvailableFrom, r.AvailableTo)
	}

	a.QuotedPrice = pricing.Quote(pricing.Input{
		BasePrice:           r.Price,
		BaseCapacity:        r.Capacity.Adults + r.Capacity.Children,
		Adults:              adults,
		Children:            children,
		AllowSingleDiscount: r.AllowSingleDiscount,
	})

	if q.Range != nil {
		a.Nights = q.Range.Nights()
		stay := pricing.StayTotal(a.QuotedPrice, a.Nights)
		a.StayPrice = &stay
	}
	return a
}

func copyHotel(h domain.Hotel) domain.Hotel {
	c := h
	c.Images = append([]string(nil), h.Images...)
	c.Features = append([]string(nil), h.Features...)
	c.Amenities = append([]domain.Amenity(nil), h.Amenities...)
	c.NearbyPlaces = append([]domain.NearbyPlace(nil), h.NearbyPlaces...)
	c.AvailableFrom = copyTime(h.AvailableFrom)
	c.AvailableTo = copyTime(h.AvailableTo)

	c.Rooms = make([]domain.Room, len(h.Rooms))
	for i, r := range h.Rooms {
		r.Images = append([]string(nil), r.Images...)
		r.AvailableFrom = copyTime(r.AvailableFrom)
		r.AvailableTo = copyTime(r.AvailableTo)
		r.Availability = nil
		c.Rooms[i] = r
	}
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
