// Package models holds the data the CLI receives from the accounts server.
package models

import "time"

// Profile mirrors the server's outward account view.
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

// DisplayName is "First Last" when either part is set, otherwise the username.
func (p Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	}
	return p.Username
}

// Registration is the input of the register command.
type Registration struct {
	Username    string
	Email       string
	Password    string
	RePassword  string
	AccountType int
}
