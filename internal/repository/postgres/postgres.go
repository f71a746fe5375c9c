package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/repository"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:embed schema.sql
var schema string

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same repository code
// runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db     *sql.DB
	tracer trace.Tracer
	*repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		tracer:       otel.Tracer("rentalstore-backend/postgres"),
		Repositories: newRepositories(db),
	}
}

func newRepositories(q DBTX) *repository.Repositories {
	return &repository.Repositories{
		Customers: NewCustomerRepository(q),
		Genres:    NewGenreRepository(q),
		Movies:    NewMovieRepository(q),
		Inventory: NewInventoryLedger(q),
		Rentals:   NewRentalRepository(q),
		Users:     NewUserRepository(q),
	}
}

// WithinTx implements repository.UnitOfWork. BeginTx is bound to ctx, so a
// cancellation before Commit makes database/sql roll the transaction back.
func (s *Store) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	ctx, span := s.tracer.Start(ctx, "postgres.unit_of_work")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		span.SetAttributes(attribute.Bool("tx.committed", false))
		logger.Debug("Rolling back transaction", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	span.SetAttributes(attribute.Bool("tx.committed", true))
	return nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("Migrate", "schema.sql")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.DatabaseResult("Migrate", 0, err)
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.DatabaseResult("Migrate", 0, nil)
	return nil
}
