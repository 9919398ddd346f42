package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinRoomPrice(t *testing.T) {
	tests := []struct {
		name   string
		rooms  []Room
		want   float64
		wantOK bool
	}{
		{"no rooms", nil, 0, false},
		{"active only", []Room{
			{Price: 500, Status: RoomActive},
			{Price: 200, Status: RoomInactive},
			{Price: 350, Status: RoomActive},
		}, 350, true},
		{"all inactive falls back", []Room{
			{Price: 500, Status: RoomInactive},
			{Price: 420, Status: RoomInactive},
		}, 420, true},
		{"empty status counts as active", []Room{{Price: 90}}, 90, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MinRoomPrice(tt.rooms)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoom_MaxAdults(t *testing.T) {
	r := Room{Capacity: Capacity{Adults: 2, Children: 1}, MaxExtraBeds: 1}
	assert.Equal(t, 3, r.MaxAdults())
}

func TestBookingStatus_Valid(t *testing.T) {
	assert.True(t, BookingConfirmed.Valid())
	assert.False(t, BookingStatus("confirmed").Valid())
}
