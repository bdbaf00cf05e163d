package models

type User struct {
	ID    uint32
	Name  string
	Email string
}
