package users

import "time"

// User is an account that owns saved resumes and usage counters.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  *string   `json:"-"`
	Name      *string   `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}
