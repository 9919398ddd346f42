package hotel

import (
	"fmt"
	"strings"
	"time"

	"umrahstay/internal/domain"
	"umrahstay/internal/pkg/utils"
)

type CapacityRequest struct {
	Adults   int `json:"adults" validate:"gte=1"`
	Children int `json:"children" validate:"gte=0"`
}

type RoomRequest struct {
	ID                  int64           `json:"id,omitempty" validate:"gte=0"`
	Name                string          `json:"name" validate:"required,max=255"`
	Description         string          `json:"description"`
	Capacity            CapacityRequest `json:"capacity"`
	Price               float64         `json:"price" validate:"gte=0"`
	MaxExtraBeds        int             `json:"maxExtraBeds" validate:"gte=0"`
	ExtraBedPrice       float64         `json:"extraBedPrice" validate:"gte=0"`
	AllowSingleDiscount bool            `json:"allowSingleDiscount"`
	AvailableFrom       string          `json:"availableFrom,omitempty"`
	AvailableTo         string          `json:"availableTo,omitempty"`
	Status              string          `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	AvailableUnits      int             `json:"availableUnits" validate:"gte=0"`
	Images              []string        `json:"images"`
}

type NearbyPlaceRequest struct {
	Name     string `json:"name" validate:"required"`
	Distance int    `json:"distance" validate:"gte=0"`
	Type     string `json:"type"`
}

type AmenityRequest struct {
	Label string `json:"label" validate:"required,max=100"`
	Icon  string `json:"icon"`
}

// HotelRequest is the body of POST and PUT /api/hotels. On PUT, a nil
// rooms, nearbyPlaces or amenities field leaves that collection untouched.
type HotelRequest struct {
	Name          string               `json:"name" validate:"required,max=255"`
	Description   string               `json:"description"`
	Location      string               `json:"location" validate:"required,max=255"`
	Coordinates   []float64            `json:"coordinates" validate:"omitempty,len=2"`
	Rating        float64              `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int                  `json:"reviewCount" validate:"gte=0"`
	Price         float64              `json:"price" validate:"gte=0"`
	Images        []string             `json:"images"`
	Features      []string             `json:"features"`
	AvailableFrom string               `json:"availableFrom,omitempty"`
	AvailableTo   string               `json:"availableTo,omitempty"`
	Badge         string               `json:"badge" validate:"max=64"`
	Featured      bool                 `json:"featured"`
	Rooms         []RoomRequest        `json:"rooms" validate:"omitempty,dive"`
	NearbyPlaces  []NearbyPlaceRequest `json:"nearbyPlaces" validate:"omitempty,dive"`
	Amenities     []AmenityRequest     `json:"amenities" validate:"omitempty,dive"`
}

func (r HotelRequest) toDomain() (*domain.Hotel, error) {
	from, to, err := parseWindow(r.AvailableFrom, r.AvailableTo)
	if err != nil {
		return nil, err
	}

	h := &domain.Hotel{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Location:      strings.TrimSpace(r.Location),
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		Price:         r.Price,
		Images:        nonNil(r.Images),
		Features:      nonNil(r.Features),
		AvailableFrom: from,
		AvailableTo:   to,
		Badge:         r.Badge,
		Featured:      r.Featured,
	}
	if len(r.Coordinates) == 2 {
		h.Coordinates = [2]float64{r.Coordinates[0], r.Coordinates[1]}
	}

	if r.Rooms != nil {
		h.Rooms = make([]domain.Room, 0, len(r.Rooms))
		for i, rr := range r.Rooms {
			room, err := rr.toDomain()
			if err != nil {
				return nil, fmt.Errorf("rooms[%d]: %w", i, err)
			}
			h.Rooms = append(h.Rooms, room)
		}
	}
	if r.NearbyPlaces != nil {
		h.NearbyPlaces = make([]domain.NearbyPlace, 0, len(r.NearbyPlaces))
		for _, p := range r.NearbyPlaces {
			h.NearbyPlaces = append(h.NearbyPlaces, domain.NearbyPlace{Name: p.Name, Distance: p.Distance, Type: p.Type})
		}
	}
	if r.Amenities != nil {
		h.Amenities = make([]domain.Amenity, 0, len(r.Amenities))
		for _, a := range r.Amenities {
			h.Amenities = append(h.Amenities, domain.Amenity{Label: strings.TrimSpace(a.Label), Icon: a.Icon})
		}
	}
	return h, nil
}

func (r RoomRequest) toDomain() (domain.Room, error) {
	from, to, err := parseWindow(r.AvailableFrom, r.AvailableTo)
	if err != nil {
		return domain.Room{}, err
	}

	status := domain.RoomStatus(r.Status)
	if status == "" {
		status = domain.RoomActive
	}

	return domain.Room{
		ID:                  r.ID,
		Name:                strings.TrimSpace(r.Name),
		Description:         r.Description,
		Capacity:            domain.Capacity{Adults: r.Capacity.Adults, Children: r.Capacity.Children},
		Price:               r.Price,
		MaxExtraBeds:        r.MaxExtraBeds,
		ExtraBedPrice:       r.ExtraBedPrice,
		AllowSingleDiscount: r.AllowSingleDiscount,
		AvailableFrom:       from,
		AvailableTo:         to,
		Status:              status,
		AvailableUnits:      r.AvailableUnits,
		Images:              nonNil(r.Images),
	}, nil
}

func parseWindow(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := utils.ParseDate(fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: availableFrom must be YYYY-MM-DD", ErrValidation)
		}
		from = &t
	}
	if toStr != "" {
		t, err := utils.ParseDate(toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: availableTo must be YYYY-MM-DD", ErrValidation)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: availableTo is before availableFrom", ErrValidation)
	}
	return from, to, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
