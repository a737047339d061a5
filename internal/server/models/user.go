package models

import "time"

// User is a registered account holder. AccountID groups the user's files.
type User struct {
	ID           string
	AccountID    string
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}
