package utils

import (
	"math"
	"time"

	"rentalstore-backend/internal/domain"
)

const day = 24 * time.Hour

// RentalFeeBreakdown itemises the fee of a rental up to a given instant
type RentalFeeBreakdown struct {
	DaysRented      int
	DailyRentalRate float64
	TotalFee        float64
}

// DaysRented returns the number of whole days between dateOut and returned.
// Partial days are truncated, so a same-day return counts as zero days.
// A return timestamp earlier than dateOut also counts as zero days.
func DaysRented(dateOut, returned time.Time) int {
	elapsed := returned.Sub(dateOut)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / day)
}

// CalculateRentalFee charges the daily rate for every whole day rented.
// There is no minimum charge.
func CalculateRentalFee(dateOut, returned time.Time, dailyRate float64) float64 {
	return roundCents(float64(DaysRented(dateOut, returned)) * dailyRate)
}

// CalculateRentalFeeWithBreakdown computes the fee of a rental against the
// movie snapshot it was opened with
func CalculateRentalFeeWithBreakdown(dateOut, returned time.Time, movie domain.MovieSnapshot) RentalFeeBreakdown {
	days := DaysRented(dateOut, returned)
	return RentalFeeBreakdown{
		DaysRented:      days,
		DailyRentalRate: movie.DailyRentalRate,
		TotalFee:        roundCents(float64(days) * movie.DailyRentalRate),
	}
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
