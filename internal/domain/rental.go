package domain

import (
	"time"

	"github.com/google/uuid"
)

// CustomerSnapshot and MovieSnapshot are value copies taken when a rental is
// opened. Later catalog edits never reach them, so fees are computed from the
// rate the customer saw at checkout.
type CustomerSnapshot struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	IsGold bool      `json:"isGold"`
}

type MovieSnapshot struct {
	ID              uuid.UUID `json:"_id"`
	Title           string    `json:"title"`
	DailyRentalRate float64   `json:"dailyRentalRate"`
}

// Rental is open while DateReturned is nil. RentalFee stays nil until the
// rental is closed.
type Rental struct {
	ID           uuid.UUID        `json:"_id"`
	Customer     CustomerSnapshot `json:"customer"`
	Movie        MovieSnapshot    `json:"movie"`
	DateOut      time.Time        `json:"dateOut"`
	DateReturned *time.Time       `json:"dateReturned"`
	RentalFee    *float64         `json:"rentalFee"`
}

func (r *Rental) IsOpen() bool {
	return r.DateReturned == nil
}

func NewCustomerSnapshot(c *Customer) CustomerSnapshot {
	return CustomerSnapshot{ID: c.ID, Name: c.Name, Phone: c.Phone, IsGold: c.IsGold}
}

func NewMovieSnapshot(m *Movie) MovieSnapshot {
	return MovieSnapshot{ID: m.ID, Title: m.Title, DailyRentalRate: m.DailyRentalRate}
}
