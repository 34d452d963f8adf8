package model

import "time"

// User is an identity record, upserted on every successful login.
type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Profile is what an identity provider returns after a successful login.
type Profile struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

// User converts the profile into a user record. Empty attributes become nil.
func (p Profile) User() User {
	return User{
		ID:              p.ID,
		Email:           optional(p.Email),
		FirstName:       optional(p.FirstName),
		LastName:        optional(p.LastName),
		ProfileImageURL: optional(p.ProfileImageURL),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
