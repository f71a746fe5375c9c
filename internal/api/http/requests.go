package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type rentalRequest struct {
	CustomerID string `json:"customerId"`
	MovieID    string `json:"movieId"`
}

type genreRequest struct {
	Name string `json:"name"`
}

type customerRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	IsGold bool   `json:"isGold"`
}

type movieRequest struct {
	Title           string  `json:"title"`
	GenreID         string  `json:"genreId"`
	NumberInStock   int     `json:"numberInStock"`
	DailyRentalRate float64 `json:"dailyRentalRate"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	return nil
}

// parseRequiredID validates an id carried in a request body.
func parseRequiredID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, &domain.ValidationError{Field: field, Reason: "is required"}
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: field, Reason: "must be a valid id"}
	}
	return id, nil
}

// pathID reads the {id} route variable. A malformed id cannot name an
// existing resource, so callers answer it with 404.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

func (req rentalRequest) ids() (uuid.UUID, uuid.UUID, error) {
	customerID, err := parseRequiredID("customerId", req.CustomerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	movieID, err := parseRequiredID("movieId", req.MovieID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return customerID, movieID, nil
}

func (req customerRequest) toDomain(id uuid.UUID) *domain.Customer {
	return &domain.Customer{ID: id, Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
}

func (req movieRequest) toInput() (service.MovieInput, error) {
	genreID, err := parseRequiredID("genreId", req.GenreID)
	if err != nil {
		return service.MovieInput{}, err
	}
	return service.MovieInput{
		Title:           req.Title,
		GenreID:         genreID,
		NumberInStock:   req.NumberInStock,
		DailyRentalRate: req.DailyRentalRate,
	}, nil
}
