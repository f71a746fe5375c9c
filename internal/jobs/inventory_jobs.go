package jobs

import (
	"context"
	"fmt"

	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/metrics"
)

type auditReport struct {
	OutOfStock    int
	NegativeStock int
}

// AuditInventory logs the movies that cannot be rented right now along with
// the number of copies customers still hold. A negative stock counter is
// reported as an inconsistency.
func (jr *JobRunner) AuditInventory() {
	jr.runWithRecovery("AuditInventory", func(ctx context.Context) error {
		_, err := jr.auditInventory(ctx)
		return err
	})
}

func (jr *JobRunner) auditInventory(ctx context.Context) (auditReport, error) {
	var report auditReport

	movies, err := jr.repos.Inventory.ListOutOfStock(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list out of stock movies: %w", err)
	}

	outstanding, err := jr.repos.Rentals.CountOutstandingByMovie(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to count outstanding rentals: %w", err)
	}

	for _, movie := range movies {
		report.OutOfStock++
		if movie.NumberInStock < 0 {
			report.NegativeStock++
			metrics.InventoryInconsistencies.Inc()
			logger.Inconsistency(ctx, "negative_stock",
				"movie_id", movie.ID, "title", movie.Title, "stock", movie.NumberInStock)
			continue
		}
		logger.Info("Movie out of stock",
			"movie_id", movie.ID,
			"title", movie.Title,
			"outstanding_rentals", outstanding[movie.ID])
	}

	logger.Info("Inventory audit finished",
		"out_of_stock", report.OutOfStock,
		"negative_stock", report.NegativeStock)
	return report, nil
}
