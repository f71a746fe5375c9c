package http

import (
	"net/http"

	"rentalstore-backend/internal/service"
)

const msgRentalNotFound = "The rental with the given ID was not found."

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalSvc.ListRentals(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgRentalNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, rentals)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgRentalNotFound)
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgRentalNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}

// Open checks out one copy of a movie to a customer.
func (h *RentalHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgRentalNotFound)
		return
	}
	customerID, movieID, err := req.ids()
	if err != nil {
		writeServiceError(w, r, err, msgRentalNotFound)
		return
	}

	rental, err := h.rentalSvc.OpenRental(r.Context(), customerID, movieID)
	if err != nil {
		writeServiceError(w, r, err, msgRentalNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}

// Return closes the open rental for a customer and movie and reports the fee.
func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, "Rental not found.")
		return
	}
	customerID, movieID, err := req.ids()
	if err != nil {
		writeServiceError(w, r, err, "Rental not found.")
		return
	}

	rental, err := h.rentalSvc.CloseRental(r.Context(), customerID, movieID)
	if err != nil {
		writeServiceError(w, r, err, "Rental not found.")
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgRentalNotFound)
		return
	}
	rental, err := h.rentalSvc.DeleteRental(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgRentalNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}
