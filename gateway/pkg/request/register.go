package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Email    string `validate:"required,email"       json:"email"`
	Password string `validate:"required,min=6,max=72" json:"password"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("password", "***")
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}
