package handler

import "time"

// --- Request types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,max=100"`
	Headline *string `json:"headline" validate:"omitempty,max=120"`
	Bio      *string `json:"bio"      validate:"omitempty,max=2000"`
	Location *string `json:"location" validate:"omitempty,max=100"`
}

type listUsersQuery struct {
	Page  int `query:"page"  validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

// --- Response types ---

type profileResponse struct {
	FullName        string `json:"fullName,omitempty"`
	Headline        string `json:"headline,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Location        string `json:"location,omitempty"`
	ProfileImage    string `json:"profileImage,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type userResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	Role      string          `json:"role"`
	Profile   profileResponse `json:"profile"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type registerResponse struct {
	User userResponse `json:"user"`
}

// loginResponse keeps snake_case token fields; refreshResponse uses camelCase.
// Both shapes are part of the public contract.
type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type uploadResponse struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type profileImageResponse struct {
	uploadResponse
	User userResponse `json:"user"`
}

type listUsersResponse struct {
	Items      []userResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}
