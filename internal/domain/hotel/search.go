package hotel

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"umrahstay/internal/domain/availability"
	"umrahstay/internal/pkg/utils"
)

const (
	SortRating    = "rating"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ListFilter is the part of a search the database evaluates.
type ListFilter struct {
	Destination string
	MinPrice    *float64
	MaxPrice    *float64
	MaxDistance *int
	Featured    bool
	Sort        string
}

type SearchParams struct {
	ListFilter
	Availability availability.Query
}

// ParseSearchParams reads the /api/hotels query string.
func ParseSearchParams(q url.Values) (SearchParams, error) {
	var p SearchParams
	p.Destination = strings.TrimSpace(q.Get("destination"))

	var err error
	if p.MinPrice, err = optFloat(q, "minPrice"); err != nil {
		return p, err
	}
	if p.MaxPrice, err = optFloat(q, "maxPrice"); err != nil {
		return p, err
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return p, fmt.Errorf("%w: minPrice is greater than maxPrice", ErrValidation)
	}
	if p.MaxDistance, err = optInt(q, "maxDistance"); err != nil {
		return p, err
	}

	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("%w: featured must be true or false", ErrValidation)
		}
		p.Featured = featured
	}

	p.Sort = q.Get("sort")
	switch p.Sort {
	case "":
		p.Sort = SortRating
	case SortRating, SortPriceAsc, SortPriceDesc:
	default:
		return p, fmt.Errorf("%w: sort must be one of rating, price_asc, price_desc", ErrValidation)
	}

	p.Availability, err = ParseAvailabilityQuery(q)
	return p, err
}

// ParseAvailabilityQuery reads checkIn, checkOut, adults, children and rooms.
func ParseAvailabilityQuery(q url.Values) (availability.Query, error) {
	var out availability.Query

	checkIn, checkOut := q.Get("checkIn"), q.Get("checkOut")
	if checkIn != "" || checkOut != "" {
		if checkIn == "" || checkOut == "" {
			return out, fmt.Errorf("%w: checkIn and checkOut must be given together", ErrValidation)
		}
		in, err := utils.ParseDate(checkIn)
		if err != nil {
			return out, fmt.Errorf("%w: checkIn must be YYYY-MM-DD", ErrValidation)
		}
		outDate, err := utils.ParseDate(checkOut)
		if err != nil {
			return out, fmt.Errorf("%w: checkOut must be YYYY-MM-DD", ErrValidation)
		}
		if !outDate.After(in) {
			return out, fmt.Errorf("%w: checkOut must be after checkIn", ErrValidation)
		}
		out.Range = &availability.DateRange{CheckIn: in, CheckOut: outDate}
	}

	adults, err := optInt(q, "adults")
	if err != nil {
		return out, err
	}
	children, err := optInt(q, "children")
	if err != nil {
		return out, err
	}
	rooms, err := optInt(q, "rooms")
	if err != nil {
		return out, err
	}

	if adults != nil && *adults > 0 {
		g := &availability.GuestSpec{Adults: *adults, Rooms: 1}
		if children != nil {
			g.Children = *children
		}
		if rooms != nil && *rooms > 0 {
			g.Rooms = *rooms
		}
		out.Guests = g
	}
	return out, nil
}

// cacheKey is a canonical form of the params; equal searches share a key.
func (p SearchParams) cacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "d=%s|sort=%s|featured=%t", strings.ToLower(p.Destination), p.Sort, p.Featured)
	if p.MinPrice != nil {
		fmt.Fprintf(&b, "|min=%g", *p.MinPrice)
	}
	if p.MaxPrice != nil {
		fmt.Fprintf(&b, "|max=%g", *p.MaxPrice)
	}
	if p.MaxDistance != nil {
		fmt.Fprintf(&b, "|dist=%d", *p.MaxDistance)
	}
	if r := p.Availability.Range; r != nil {
		fmt.Fprintf(&b, "|in=%s|out=%s", r.CheckIn.Format(utils.DateLayout), r.CheckOut.Format(utils.DateLayout))
	}
	if g := p.Availability.Guests; g != nil {
		fmt.Fprintf(&b, "|a=%d|c=%d|r=%d", g.Adults, g.Children, g.Rooms)
	}
	return b.String()
}

func optFloat(q url.Values, name string) (*float64, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, fmt.Errorf("%w: %s must be a finite non-negative number", ErrValidation, name)
	}
	return &f, nil
}

func optInt(q url.Values, name string) (*int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrValidation, name)
	}
	return &n, nil
}
