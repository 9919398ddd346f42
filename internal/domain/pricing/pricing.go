// Package pricing computes nightly room quotes from occupancy.
package pricing

import "math"

const (
	// SingleOccupancyRate is applied to the base price when one adult books a
	// room that allows the single discount.
	SingleOccupancyRate = 0.75
	ExtraAdultRate      = 1.0
	ExtraChildRate      = 0.5
)

type Input struct {
	BasePrice           float64
	BaseCapacity        int
	Adults              int
	Children            int
	AllowSingleDiscount bool
}

// Quote returns the nightly price for the given occupancy.
//
// The base price covers BaseCapacity occupants, adults first. Each adult
// beyond that costs a per-head share of the base price, each extra child half
// a share.
func Quote(in Input) float64 {
	base := math.Max(0, in.BasePrice)
	capacity := in.BaseCapacity
	if capacity <= 0 {
		capacity = 1
	}
	adults := in.Adults
	if adults < 1 {
		adults = 1
	}
	children := in.Children
	if children < 0 {
		children = 0
	}

	share := base / float64(capacity)

	price := base
	if adults == 1 && in.AllowSingleDiscount {
		price = base * SingleOccupancyRate
	}

	extraAdults := max(0, adults-capacity)
	freeSlots := max(0, capacity-adults)
	extraChildren := max(0, children-freeSlots)

	price += float64(extraAdults) * share * ExtraAdultRate
	price += float64(extraChildren) * share * ExtraChildRate

	return round2(price)
}

// StayTotal multiplies a nightly price by the number of nights, at least one.
func StayTotal(nightly float64, nights int) float64 {
	if nights < 1 {
		nights = 1
	}
	return round2(nightly * float64(nights))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
