package models

import "time"

const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserClass    string    `json:"userclass"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the account view returned to clients.
type PublicUser struct {
	ID        string `json:"id" toml:"id"`
	Email     string `json:"email" toml:"email"`
	Name      string `json:"name" toml:"name"`
	UserClass string `json:"userclass,omitempty" toml:"userclass"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, UserClass: u.UserClass}
}

// Plan returns the entitlement plan, treating anything unknown as basic.
func (u PublicUser) Plan() string {
	if u.UserClass == PlanPremium {
		return PlanPremium
	}
	return PlanBasic
}
