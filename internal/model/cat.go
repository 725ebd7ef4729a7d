package model

import "time"

// Role constants recognised by the roles guard.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Cat is the single resource exposed by the API.
type Cat struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Breed     string    `json:"breed"`
	CreatedAt time.Time `json:"created_at"`
}
