package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const headerRequestID = "X-Request-Id"

// routeTemplate returns the matched mux template, which keeps metric label
// cardinality bounded.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		w.Header().Set(headerRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

func (s *Server) panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.PanicRecoveries.Inc()
				logger.ErrorContext(r.Context(), "Panic recovered",
					"error", fmt.Sprintf("%v", rec),
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeTemplate(r)
		rw := newResponseWriter(w)

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		next.ServeHTTP(rw, r)

		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.Status())).Inc()
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		logger.DebugContext(r.Context(), "Request started", "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(rw, r)

		logger.InfoContext(r.Context(), "Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			metrics.RateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timeout := s.cfg.RequestTimeout()
		if timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// idempotencyMiddleware rejects a repeated Idempotency-Key on the rental and
// return endpoints. Keys are scoped to the caller and the route. A store
// failure lets the request through. The key is released again when the
// request does not succeed, since nothing was applied.
func (s *Server) idempotencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if s.idempotency == nil || key == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		route := routeTemplate(r)
		if route != "/api/rentals" && route != "/api/returns" {
			next.ServeHTTP(w, r)
			return
		}

		caller := "anonymous"
		if claims, err := ClaimsFromContext(r.Context()); err == nil {
			caller = claims.UserID.String()
		}

		storeKey := caller + ":" + r.Method + " " + route + ":" + key
		claimed, err := s.idempotency.Claim(r.Context(), storeKey)
		if err != nil {
			logger.WarnContext(r.Context(), "Idempotency store unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !claimed {
			metrics.IdempotencyRejects.Inc()
			writeError(w, http.StatusConflict, "Duplicate request.")
			return
		}

		rw := newResponseWriter(w)
		defer func() {
			if p := recover(); p != nil {
				s.releaseIdempotencyKey(r, storeKey)
				panic(p)
			}
		}()
		next.ServeHTTP(rw, r)
		if rw.Status() < 200 || rw.Status() >= 300 {
			s.releaseIdempotencyKey(r, storeKey)
		}
	})
}

// releaseIdempotencyKey outlives the request deadline so a timed out request
// still frees its key.
func (s *Server) releaseIdempotencyKey(r *http.Request, storeKey string) {
	if err := s.idempotency.Release(context.WithoutCancel(r.Context()), storeKey); err != nil {
		logger.WarnContext(r.Context(), "Failed to release idempotency key", "error", err)
	}
}
