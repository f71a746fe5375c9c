package http

import (
	"net/http"

	"rentalstore-backend/internal/service"
)

const msgMovieNotFound = "The movie with the given ID was not found."

type MovieHandler struct {
	movieSvc service.MovieService
}

func NewMovieHandler(movieSvc service.MovieService) *MovieHandler {
	return &MovieHandler{movieSvc: movieSvc}
}

func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movieSvc.ListMovies(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, movies)
}

func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgMovieNotFound)
		return
	}
	movie, err := h.movieSvc.GetMovie(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, movie)
}

func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	movie, err := h.movieSvc.CreateMovie(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, movie)
}

func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgMovieNotFound)
		return
	}
	var req movieRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	movie, err := h.movieSvc.UpdateMovie(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, movie)
}

func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgMovieNotFound)
		return
	}
	movie, err := h.movieSvc.DeleteMovie(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, msgMovieNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, movie)
}
