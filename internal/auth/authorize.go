package auth

import (
	"errors"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
)

// Authorization failure causes, mapped to 401/403 at the HTTP layer.
var (
	// ErrNotAuthenticated means no identity was established for the request.
	ErrNotAuthenticated = errors.New("authentication required")
	// ErrNotAuthorized means the caller is authenticated but its role is not
	// in the route's required set.
	ErrNotAuthorized = errors.New("not authorized")
)

// Authorize allows or denies an operation for the given identity. A nil
// identity is not authenticated; a role outside required is not authorized;
// an empty required set allows any authenticated caller.
//
// Pure and total: it is re-evaluated on every request and never cached,
// because identity and role are per-request facts.
func Authorize(id *Identity, required ...domain.Role) error {
	if id == nil || id.ID == "" {
		return ErrNotAuthenticated
	}
	if !id.Role.Valid() {
		return ErrNotAuthenticated
	}
	if len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if id.Role == r {
			return nil
		}
	}
	return ErrNotAuthorized
}
