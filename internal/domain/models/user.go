package models

import "time"

// StartingEcoPoints is the balance every newly registered user gets.
const StartingEcoPoints = 100

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	EcoPoints    int       `json:"eco_points"`
	CreatedAt    time.Time `json:"created_at"`
}
