package service

import "github.com/devfolio/portfolio-api/internal/core/domain"

// Allow reports whether auth may proceed on a route that declares the given
// roles. An empty declaration admits any authenticated identity.
func Allow(declared []domain.Role, auth domain.AuthContext) bool {
	if len(declared) == 0 {
		return true
	}
	for _, r := range declared {
		if r == auth.Role {
			return true
		}
	}
	return false
}
