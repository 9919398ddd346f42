package profile

const minPasswordLength = 6

// UpdateProfileRequest carries optional profile changes. Nil fields are left
// as they are.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password"`
}
