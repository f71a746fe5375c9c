package http

import (
	"net/http"
	"strings"

	"rentalstore-backend/internal/config"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/security"
)

const headerAuthToken = "x-auth-token"

// authMiddleware enforces the security level configured for the matched
// route and stores the caller's claims in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(r.Method, routeTemplate(r))

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			logger.DebugContext(r.Context(), "Token rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		if !allowed(level, claims) {
			writeError(w, http.StatusForbidden, "Access denied.")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func extractToken(r *http.Request) string {
	if token := r.Header.Get(headerAuthToken); token != "" {
		return token
	}

	auth := r.Header.Get("Authorization")
	// Remove Bearer prefix if present
	if len(auth) > 7 && strings.ToUpper(auth[0:7]) == "BEARER " {
		return auth[7:]
	}
	return ""
}

func allowed(level config.SecurityLevel, claims *security.UserClaims) bool {
	switch level {
	case config.SecurityAuthenticated:
		return true
	case config.SecurityAdmin:
		return claims.IsAdmin
	default:
		return false
	}
}
