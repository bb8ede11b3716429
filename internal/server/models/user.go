package models

import "time"

type User struct {
	ID           string
	Email        string
	FullName     string
	UserName     string
	Telephone    string
	PerfilID     string
	PasswordHash []byte
	Salt         []byte
	AvatarKey    string
	CreatedAt    time.Time
}
