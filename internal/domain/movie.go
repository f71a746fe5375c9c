package domain

import "github.com/google/uuid"

const (
	MaxNumberInStock   = 255
	MaxDailyRentalRate = 255
)

// Movie is a catalog entry. NumberInStock is the inventory ledger value and
// is never negative.
type Movie struct {
	ID              uuid.UUID `json:"_id"`
	Title           string    `json:"title"`
	Genre           Genre     `json:"genre"`
	NumberInStock   int       `json:"numberInStock"`
	DailyRentalRate float64   `json:"dailyRentalRate"`
}

func (m *Movie) Validate() error {
	if err := checkLength("title", m.Title, 5, 255); err != nil {
		return err
	}
	if m.NumberInStock < 0 || m.NumberInStock > MaxNumberInStock {
		return &ValidationError{Field: "numberInStock", Reason: "must be between 0 and 255"}
	}
	if m.DailyRentalRate < 0 || m.DailyRentalRate > MaxDailyRentalRate {
		return &ValidationError{Field: "dailyRentalRate", Reason: "must be between 0 and 255"}
	}
	return nil
}
