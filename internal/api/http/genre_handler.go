package http

import (
	"net/http"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/service"
)

const msgGenreNotFound = "The genre with the given ID was not found."

type GenreHandler struct {
	genreSvc service.GenreService
}

func NewGenreHandler(genreSvc service.GenreService) *GenreHandler {
	return &GenreHandler{genreSvc: genreSvc}
}

func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreSvc.ListGenres(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, genres)
}

func (h *GenreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgGenreNotFound)
		return
	}
	genre, err := h.genreSvc.GetGenre(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, genre)
}

func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	genre := &domain.Genre{Name: req.Name}
	if err := h.genreSvc.CreateGenre(r.Context(), genre); err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, genre)
}

func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgGenreNotFound)
		return
	}
	var req genreRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	genre := &domain.Genre{ID: id, Name: req.Name}
	if err := h.genreSvc.UpdateGenre(r.Context(), genre); err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, genre)
}

func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgGenreNotFound)
		return
	}
	genre, err := h.genreSvc.DeleteGenre(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgGenreNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, genre)
}
