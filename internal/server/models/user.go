package models

import "time"

// User is an account allowed to sign in. Only the seed admin exists today.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
