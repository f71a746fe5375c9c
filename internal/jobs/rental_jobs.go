package jobs

import (
	"context"
	"fmt"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/metrics"
	"rentalstore-backend/internal/utils"
)

// ReportOverdueRentals logs every open rental checked out longer than the
// configured overdue threshold.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func(ctx context.Context) error {
		_, err := jr.reportOverdueRentals(ctx)
		return err
	})
}

// overdueRental pairs an open rental with the fee it has accrued so far.
type overdueRental struct {
	domain.Rental
	Fee utils.RentalFeeBreakdown
}

func (jr *JobRunner) reportOverdueRentals(ctx context.Context) ([]overdueRental, error) {
	now := jr.now().UTC()
	cutoff := now.Add(-jr.config.OverdueAfter())

	overdue, err := jr.repos.Rentals.ListOutstanding(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding rentals: %w", err)
	}

	report := make([]overdueRental, 0, len(overdue))
	for _, rental := range overdue {
		fee := utils.CalculateRentalFeeWithBreakdown(rental.DateOut, now, rental.Movie)
		report = append(report, overdueRental{Rental: rental, Fee: fee})
		logger.Warn("Rental overdue",
			"rental_id", rental.ID,
			"customer_id", rental.Customer.ID,
			"customer_name", rental.Customer.Name,
			"customer_phone", rental.Customer.Phone,
			"movie_title", rental.Movie.Title,
			"date_out", rental.DateOut,
			"days_out", fee.DaysRented,
			"daily_rental_rate", fee.DailyRentalRate,
			"fee_so_far", fee.TotalFee)
	}

	metrics.OverdueRentals.Set(float64(len(report)))
	logger.Info("Overdue rentals reported", "count", len(report), "cutoff", cutoff)
	return report, nil
}
