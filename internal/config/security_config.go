// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Valid x-auth-token required
	SecurityAdmin                              // Valid token with isAdmin claim
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAuthenticated:
		return "authenticated"
	case SecurityAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// EndpointSecurityConfig maps "METHOD path-template" to the required security
// level. Path templates are the gorilla/mux route templates.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Operational
	"GET /health":  SecurityPublic,
	"GET /metrics": SecurityPublic,

	// Auth and users
	"POST /api/auth":    SecurityPublic,
	"POST /api/users":   SecurityPublic,
	"GET /api/users/me": SecurityAuthenticated,

	// Genres
	"GET /api/genres":         SecurityPublic,
	"GET /api/genres/{id}":    SecurityPublic,
	"POST /api/genres":        SecurityAuthenticated,
	"PUT /api/genres/{id}":    SecurityAuthenticated,
	"DELETE /api/genres/{id}": SecurityAdmin,

	// Customers
	"GET /api/customers":         SecurityPublic,
	"GET /api/customers/{id}":    SecurityPublic,
	"POST /api/customers":        SecurityAuthenticated,
	"PUT /api/customers/{id}":    SecurityAuthenticated,
	"DELETE /api/customers/{id}": SecurityAdmin,

	// Movies
	"GET /api/movies":         SecurityPublic,
	"GET /api/movies/{id}":    SecurityPublic,
	"POST /api/movies":        SecurityAuthenticated,
	"PUT /api/movies/{id}":    SecurityAuthenticated,
	"DELETE /api/movies/{id}": SecurityAdmin,

	// Rentals and returns
	"GET /api/rentals":         SecurityPublic,
	"GET /api/rentals/{id}":    SecurityPublic,
	"POST /api/rentals":        SecurityAuthenticated,
	"DELETE /api/rentals/{id}": SecurityAdmin,
	"POST /api/returns":        SecurityAuthenticated,
}

// GetSecurityLevel returns the security level for a method and route template
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
