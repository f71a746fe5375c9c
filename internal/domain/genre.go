package domain

import "github.com/google/uuid"

type Genre struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

func (g *Genre) Validate() error {
	return checkLength("name", g.Name, 5, 50)
}
