package http

import (
	"net/http"

	"rentalstore-backend/internal/service"

	"github.com/google/uuid"
)

const msgCustomerNotFound = "The customer with the given ID was not found."

type CustomerHandler struct {
	customerSvc service.CustomerService
}

func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerSvc.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgCustomerNotFound)
		return
	}
	customer, err := h.customerSvc.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	customer := req.toDomain(uuid.Nil)
	if err := h.customerSvc.CreateCustomer(r.Context(), customer); err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgCustomerNotFound)
		return
	}
	var req customerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	customer := req.toDomain(id)
	if err := h.customerSvc.UpdateCustomer(r.Context(), customer); err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgCustomerNotFound)
		return
	}
	customer, err := h.customerSvc.DeleteCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgCustomerNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, customer)
}
