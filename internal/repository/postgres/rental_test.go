package postgres_test

import (
	"context"
	"testing"
	"time"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rentalRowColumns = []string{
	"id", "customer_id", "customer_name", "customer_phone", "customer_is_gold",
	"movie_id", "movie_title", "movie_daily_rental_rate", "date_out", "date_returned", "rental_fee",
}

func newRental() *domain.Rental {
	return &domain.Rental{
		Customer: domain.CustomerSnapshot{ID: uuid.New(), Name: "customer1", Phone: "12345", IsGold: true},
		Movie:    domain.MovieSnapshot{ID: uuid.New(), Title: "Terminator", DailyRentalRate: 2},
		DateOut:  time.Now().UTC(),
	}
}

func TestRentalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rental := newRental()
		id := uuid.New()

		mock.ExpectQuery("INSERT INTO rentals").
			WithArgs(rental.Customer.ID, "customer1", "12345", true, rental.Movie.ID, "Terminator", 2.0, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

		err := repo.Create(ctx, rental)
		assert.NoError(t, err)
		assert.Equal(t, id, rental.ID)
	})

	t.Run("Open rental already exists", func(t *testing.T) {
		rental := newRental()

		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, rental)
		assert.ErrorIs(t, err, domain.ErrRentalAlreadyOpen)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_FindOpenByCustomerAndMovie(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()
	customerID, movieID, rentalID := uuid.New(), uuid.New(), uuid.New()
	dateOut := time.Now().Add(-72 * time.Hour).UTC()

	t.Run("Found and locked", func(t *testing.T) {
		rows := sqlmock.NewRows(rentalRowColumns).
			AddRow(rentalID.String(), customerID.String(), "customer1", "12345", false,
				movieID.String(), "Terminator", 2.0, dateOut, nil, nil)

		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE (.+) date_returned IS NULL\\s+FOR UPDATE").
			WithArgs(customerID, movieID).
			WillReturnRows(rows)

		rt, err := repo.FindOpenByCustomerAndMovie(ctx, customerID, movieID)
		require.NoError(t, err)
		assert.Equal(t, rentalID, rt.ID)
		assert.True(t, rt.IsOpen())
		assert.Nil(t, rt.RentalFee)
		assert.Equal(t, 2.0, rt.Movie.DailyRentalRate)
	})

	t.Run("None open", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals").
			WithArgs(customerID, movieID).
			WillReturnRows(sqlmock.NewRows(rentalRowColumns))

		_, err := repo.FindOpenByCustomerAndMovie(ctx, customerID, movieID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_FindLatestByCustomerAndMovie(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	customerID, movieID := uuid.New(), uuid.New()
	dateOut := time.Now().Add(-72 * time.Hour).UTC()
	returned := dateOut.Add(48 * time.Hour)

	rows := sqlmock.NewRows(rentalRowColumns).
		AddRow(uuid.New().String(), customerID.String(), "customer1", "12345", false,
			movieID.String(), "Terminator", 2.0, dateOut, returned, 4.0)
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE (.+) ORDER BY date_out DESC LIMIT 1").
		WithArgs(customerID, movieID).
		WillReturnRows(rows)

	rt, err := repo.FindLatestByCustomerAndMovie(context.Background(), customerID, movieID)
	require.NoError(t, err)
	assert.False(t, rt.IsOpen())
	require.NotNil(t, rt.RentalFee)
	assert.Equal(t, 4.0, *rt.RentalFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()
	rental := newRental()
	rental.ID = uuid.New()
	returned := time.Now().UTC()
	fee := 0.0
	rental.DateReturned = &returned
	rental.RentalFee = &fee

	t.Run("Closes open rental", func(t *testing.T) {
		mock.ExpectExec("UPDATE rentals SET date_returned=\\$1, rental_fee=\\$2 WHERE id=\\$3 AND date_returned IS NULL").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), rental.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, rental))
	})

	t.Run("Already closed", func(t *testing.T) {
		mock.ExpectExec("UPDATE rentals").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), rental.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, rental), domain.ErrAlreadyProcessed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(rentalRowColumns).
		AddRow(uuid.New().String(), uuid.New().String(), "customer2", "12345", false,
			uuid.New().String(), "Alien", 3.0, now, nil, nil).
		AddRow(uuid.New().String(), uuid.New().String(), "customer1", "12345", true,
			uuid.New().String(), "Terminator", 2.0, now.Add(-time.Hour), now, 0.0)
	mock.ExpectQuery("SELECT (.+) FROM rentals ORDER BY date_out DESC").WillReturnRows(rows)

	rentals, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, "Alien", rentals[0].Movie.Title)
	assert.True(t, rentals[0].IsOpen())
	assert.False(t, rentals[1].IsOpen())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_CountOutstandingByMovie(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	movieID := uuid.New()

	mock.ExpectQuery("SELECT movie_id, COUNT\\(\\*\\) FROM rentals WHERE date_returned IS NULL GROUP BY movie_id").
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "count"}).AddRow(movieID.String(), 3))

	counts, err := repo.CountOutstandingByMovie(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counts[movieID])
	assert.NoError(t, mock.ExpectationsWereMet())
}
