package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/metrics"
	"rentalstore-backend/internal/repository"
	"rentalstore-backend/internal/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type rentalService struct {
	customers repository.CustomerRepository
	movies    repository.MovieRepository
	rentals   repository.RentalRepository
	uow       repository.UnitOfWork
	tracer    trace.Tracer
	now       func() time.Time
}

func NewRentalService(repos *repository.Repositories, uow repository.UnitOfWork) RentalService {
	return &rentalService{
		customers: repos.Customers,
		movies:    repos.Movies,
		rentals:   repos.Rentals,
		uow:       uow,
		tracer:    otel.Tracer("rentalstore-backend/rental"),
		now:       time.Now,
	}
}

func (s *rentalService) OpenRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	ctx, span := s.tracer.Start(ctx, "rental.open", trace.WithAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.String("movie.id", movieID.String()),
	))
	defer span.End()
	logger.EnterMethod("rentalService.OpenRental", "customerID", customerID, "movieID", movieID)

	rental, err := s.openRental(ctx, customerID, movieID)
	s.observe(span, "open", err)
	if err != nil {
		logger.ExitMethodWithError("rentalService.OpenRental", err, isBusinessError(err))
		return nil, err
	}

	span.SetAttributes(attribute.String("rental.id", rental.ID.String()))
	logger.InfoContext(ctx, "Rental opened", "rental_id", rental.ID, "customer_id", customerID, "movie_id", movieID)
	logger.ExitMethod("rentalService.OpenRental", "rentalID", rental.ID)
	return rental, nil
}

func (s *rentalService) openRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewInvalidReference("customer")
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewInvalidReference("movie")
		}
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}

	// Early rejection only. The ledger re-checks atomically inside the unit
	// of work, where a lost race surfaces as ErrInsufficientStock.
	if movie.NumberInStock <= 0 {
		return nil, domain.ErrOutOfStock
	}

	rental := &domain.Rental{
		Customer: domain.NewCustomerSnapshot(customer),
		Movie:    domain.NewMovieSnapshot(movie),
		DateOut:  s.now().UTC(),
	}

	err = s.uow.WithinTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Inventory.Decrement(ctx, movie.ID); err != nil {
			return err
		}
		return repos.Rentals.Create(ctx, rental)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			return nil, domain.ErrOutOfStock
		case errors.Is(err, domain.ErrInvalidReference), errors.Is(err, domain.ErrRentalAlreadyOpen):
			return nil, err
		default:
			return nil, &domain.TransactionError{Op: "open rental", Err: err}
		}
	}
	return rental, nil
}

func (s *rentalService) CloseRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	ctx, span := s.tracer.Start(ctx, "rental.close", trace.WithAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.String("movie.id", movieID.String()),
	))
	defer span.End()
	logger.EnterMethod("rentalService.CloseRental", "customerID", customerID, "movieID", movieID)

	rental, restocked, err := s.closeRental(ctx, customerID, movieID)
	s.observe(span, "close", err)
	if err != nil {
		logger.ExitMethodWithError("rentalService.CloseRental", err, isBusinessError(err))
		return nil, err
	}

	if !restocked {
		metrics.InventoryInconsistencies.Inc()
		logger.Inconsistency(ctx, "restock_missing_movie",
			"rental_id", rental.ID, "movie_id", rental.Movie.ID, "customer_id", rental.Customer.ID)
	}

	span.SetAttributes(
		attribute.String("rental.id", rental.ID.String()),
		attribute.Float64("rental.fee", *rental.RentalFee),
	)
	logger.InfoContext(ctx, "Rental closed", "rental_id", rental.ID, "fee", *rental.RentalFee)
	logger.ExitMethod("rentalService.CloseRental", "rentalID", rental.ID)
	return rental, nil
}

// closeRental reports restocked=false when the rental was closed but the
// movie no longer exists, so there is no stock counter to return the unit to.
func (s *rentalService) closeRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, bool, error) {
	var closed *domain.Rental
	restocked := true

	err := s.uow.WithinTx(ctx, func(repos *repository.Repositories) error {
		rental, err := repos.Rentals.FindOpenByCustomerAndMovie(ctx, customerID, movieID)
		if errors.Is(err, domain.ErrNotFound) {
			if _, err := repos.Rentals.FindLatestByCustomerAndMovie(ctx, customerID, movieID); err != nil {
				return err
			}
			return domain.ErrAlreadyProcessed
		}
		if err != nil {
			return err
		}

		returned := s.now().UTC()
		fee := utils.CalculateRentalFee(rental.DateOut, returned, rental.Movie.DailyRentalRate)
		rental.DateReturned = &returned
		rental.RentalFee = &fee

		if err := repos.Rentals.Update(ctx, rental); err != nil {
			return err
		}

		if err := repos.Inventory.Increment(ctx, rental.Movie.ID); err != nil {
			if !errors.Is(err, domain.ErrInvalidReference) {
				return err
			}
			restocked = false
		}

		closed = rental
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyProcessed) {
			return nil, false, err
		}
		return nil, false, &domain.TransactionError{Op: "close rental", Err: err}
	}
	return closed, restocked, nil
}

func (s *rentalService) ListRentals(ctx context.Context) ([]domain.Rental, error) {
	return s.rentals.List(ctx)
}

func (s *rentalService) GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	return s.rentals.GetByID(ctx, id)
}

// DeleteRental removes a rental record. A rental that is still open holds a
// unit of stock, which is released in the same unit of work.
func (s *rentalService) DeleteRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	var deleted *domain.Rental
	err := s.uow.WithinTx(ctx, func(repos *repository.Repositories) error {
		rental, err := repos.Rentals.Delete(ctx, id)
		if err != nil {
			return err
		}
		if rental.IsOpen() {
			err := repos.Inventory.Increment(ctx, rental.Movie.ID)
			if err != nil && !errors.Is(err, domain.ErrInvalidReference) {
				return err
			}
		}
		deleted = rental
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, &domain.TransactionError{Op: "delete rental", Err: err}
	}
	logger.InfoContext(ctx, "Rental deleted", "rental_id", id, "was_open", deleted.IsOpen())
	return deleted, nil
}

func (s *rentalService) observe(span trace.Span, operation string, err error) {
	outcome := outcomeOf(err)
	metrics.RentalTransitions.WithLabelValues(operation, outcome).Inc()
	span.SetAttributes(attribute.String("rental.outcome", outcome))
	if err != nil && !isBusinessError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, domain.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, domain.ErrRentalAlreadyOpen):
		return "already_open"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, domain.ErrTransactionFailed):
		return "transaction_failed"
	default:
		return "error"
	}
}

// isBusinessError reports whether err is an expected rejection rather than
// an infrastructure failure.
func isBusinessError(err error) bool {
	switch outcomeOf(err) {
	case "transaction_failed", "error":
		return false
	default:
		return true
	}
}
