package users

// UpdateProfileRequest carries the editable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email     *string `json:"email" validate:"omitempty,email"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,max=2048"`
}
