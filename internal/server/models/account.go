// Package models defines the server-side data models persisted in the
// database and the projections handed to transports.
package models

import "time"

// Account is a persisted user account. PasswordHash never leaves the
// server: transports only ever see a Profile.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	AccountType  int
	FirstName    string
	LastName     string
	Description  string
	PhoneNumber  string
	Website      string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the outward view of an Account. It has no password field.
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	AccountType int       `json:"accountType"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Description string    `json:"description"`
	PhoneNumber string    `json:"phoneNumber"`
	Website     string    `json:"website"`
	AvatarURL   string    `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Profile projects the account without its secret.
func (a *Account) Profile() Profile {
	return Profile{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		AccountType: a.AccountType,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Description: a.Description,
		PhoneNumber: a.PhoneNumber,
		Website:     a.Website,
		AvatarURL:   a.AvatarURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
