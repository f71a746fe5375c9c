package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRental_IsOpen(t *testing.T) {
	r := &Rental{ID: uuid.New(), DateOut: time.Now()}
	assert.True(t, r.IsOpen())

	now := time.Now()
	r.DateReturned = &now
	assert.False(t, r.IsOpen())
}

func TestSnapshotsAreValueCopies(t *testing.T) {
	m := &Movie{ID: uuid.New(), Title: "Terminator", DailyRentalRate: 2}
	snap := NewMovieSnapshot(m)
	m.DailyRentalRate = 5
	m.Title = "Terminator 2"

	assert.Equal(t, 2.0, snap.DailyRentalRate)
	assert.Equal(t, "Terminator", snap.Title)

	c := &Customer{ID: uuid.New(), Name: "customer1", Phone: "12345", IsGold: true}
	cs := NewCustomerSnapshot(c)
	c.Name = "renamed"
	assert.Equal(t, "customer1", cs.Name)
	assert.True(t, cs.IsGold)
}

func TestErrors_Is(t *testing.T) {
	assert.True(t, errors.Is(NewInvalidReference("movie"), ErrInvalidReference))
	assert.Equal(t, "invalid movie", NewInvalidReference("movie").Error())

	var ref *InvalidReferenceError
	assert.True(t, errors.As(NewInvalidReference("customer"), &ref))
	assert.Equal(t, "customer", ref.Entity)

	cause := errors.New("connection reset")
	txErr := &TransactionError{Op: "open rental", Err: cause}
	assert.True(t, errors.Is(txErr, ErrTransactionFailed))
	assert.True(t, errors.Is(txErr, cause))

	assert.True(t, errors.Is(&ValidationError{Field: "name"}, ErrValidation))
}

func TestValidate(t *testing.T) {
	t.Run("Genre", func(t *testing.T) {
		assert.NoError(t, (&Genre{Name: "Action"}).Validate())
		assert.ErrorIs(t, (&Genre{Name: "abc"}).Validate(), ErrValidation)
		assert.ErrorIs(t, (&Genre{}).Validate(), ErrValidation)
	})

	t.Run("Customer", func(t *testing.T) {
		assert.NoError(t, (&Customer{Name: "customer1", Phone: "12345"}).Validate())
		assert.ErrorIs(t, (&Customer{Name: "customer1", Phone: "1"}).Validate(), ErrValidation)
	})

	t.Run("Movie", func(t *testing.T) {
		assert.NoError(t, (&Movie{Title: "Terminator", NumberInStock: 3, DailyRentalRate: 2}).Validate())
		assert.ErrorIs(t, (&Movie{Title: "Terminator", NumberInStock: -1}).Validate(), ErrValidation)
		assert.ErrorIs(t, (&Movie{Title: "Terminator", DailyRentalRate: 256}).Validate(), ErrValidation)
	})

	t.Run("Credentials", func(t *testing.T) {
		assert.NoError(t, ValidateRegistration("user1", "user1@example.com", "12345"))
		assert.ErrorIs(t, ValidateCredentials("not-an-email", "12345"), ErrValidation)
		assert.ErrorIs(t, ValidateCredentials("user1@example.com", "123"), ErrValidation)
	})
}
