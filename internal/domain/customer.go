package domain

import "github.com/google/uuid"

type Customer struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	IsGold bool      `json:"isGold"`
}

// Validate checks the caller-supplied fields of a customer.
func (c *Customer) Validate() error {
	if err := checkLength("name", c.Name, 5, 50); err != nil {
		return err
	}
	return checkLength("phone", c.Phone, 5, 50)
}
