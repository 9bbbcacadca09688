package models

import "time"

type User struct {
	UserID       string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
