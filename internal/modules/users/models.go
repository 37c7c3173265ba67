package users

import "crudapp.com/app/internal/shared/apitime"

// User as the API returns it; the password is never part of a read.
type User struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	CreatedAt apitime.Time `json:"created_at"`
}

func (u User) EntityID() int64 { return u.ID }

// Input is the create/update body. An empty Password is left out of the
// body, which the API reads as "keep the current password" on update.
type Input struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
