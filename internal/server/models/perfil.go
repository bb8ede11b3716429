package models

type Perfil struct {
	ID          string
	Name        string
	Permissions []string
}
