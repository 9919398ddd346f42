package domain

import "time"

type RoomStatus string

const (
	RoomActive   RoomStatus = "ACTIVE"
	RoomInactive RoomStatus = "INACTIVE"
)

// Capacity is the base occupancy a room is priced for.
type Capacity struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type Hotel struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Location      string        `json:"location"`
	Coordinates   [2]float64    `json:"coordinates"` // [lat, lng]
	Rating        float64       `json:"rating"`
	ReviewCount   int           `json:"reviewCount"`
	Price         float64       `json:"price"`
	Images        []string      `json:"images"`
	Features      []string      `json:"features"`
	AvailableFrom *time.Time    `json:"availableFrom,omitempty"`
	AvailableTo   *time.Time    `json:"availableTo,omitempty"`
	Badge         string        `json:"badge,omitempty"`
	Featured      bool          `json:"featured"`
	Rooms         []Room        `json:"rooms"`
	Amenities     []Amenity     `json:"amenities"`
	NearbyPlaces  []NearbyPlace `json:"nearbyPlaces"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type Room struct {
	ID                  int64      `json:"id"`
	HotelID             int64      `json:"hotelId"`
	Name                string     `json:"name"`
	Description         string     `json:"description,omitempty"`
	Capacity            Capacity   `json:"capacity"`
	Price               float64    `json:"price"`
	MaxExtraBeds        int        `json:"maxExtraBeds"`
	ExtraBedPrice       float64    `json:"extraBedPrice"`
	AllowSingleDiscount bool       `json:"allowSingleDiscount"`
	AvailableFrom       *time.Time `json:"availableFrom,omitempty"`
	AvailableTo         *time.Time `json:"availableTo,omitempty"`
	Status              RoomStatus `json:"status"`
	AvailableUnits      int        `json:"availableUnits"`
	Images              []string   `json:"images"`

	// Set only on search results that carried a date range or guest spec.
	Availability *RoomAvailability `json:"availability,omitempty"`
}

// RoomAvailability annotates a room with how it matched a search.
type RoomAvailability struct {
	Fits        bool     `json:"fits"`
	InWindow    bool     `json:"inWindow"`
	QuotedPrice float64  `json:"quotedPrice"`
	Nights      int      `json:"nights,omitempty"`
	StayPrice   *float64 `json:"stayPrice,omitempty"`
}

func (r Room) IsActive() bool {
	return r.Status == "" || r.Status == RoomActive
}

// MaxAdults is base adult capacity plus extra beds.
func (r Room) MaxAdults() int {
	return r.Capacity.Adults + r.MaxExtraBeds
}

type Amenity struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type NearbyPlace struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Distance int    `json:"distance"` // meters
	Type     string `json:"type,omitempty"`
}

// MinRoomPrice is the lowest price among active rooms, falling back to all
// rooms when none is active. ok is false when there are no rooms.
func MinRoomPrice(rooms []Room) (price float64, ok bool) {
	for _, onlyActive := range []bool{true, false} {
		for _, r := range rooms {
			if onlyActive && !r.IsActive() {
				continue
			}
			if !ok || r.Price < price {
				price = r.Price
				ok = true
			}
		}
		if ok {
			return price, true
		}
	}
	return 0, false
}
