package response

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is what register and login hand back to the client.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
