package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	RoomID int64  `json:"roomId" validate:"required,gt=0"`
	Email  string `json:"guestEmail" validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(&sample{RoomID: 1}))

	errs := Validate(&sample{Email: "nope"})
	assert.Equal(t, "required", errs["roomId"])
	assert.Equal(t, "email", errs["guestEmail"])
}
