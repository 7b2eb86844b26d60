package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/pricing"
	"github.com/Skotchmaster/little_lemon/internal/repo"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrInvalidQuantity    = pricing.ErrInvalidQuantity        // 400
	ErrEmptyCart          = errors.New("cart is empty")       // 400
	ErrUnauthorized       = errors.New("unauthorized")        // 401
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
	ErrPermissionDenied   = access.ErrPermissionDenied        // 403
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 409
)

// mapRepoErr translates storage errors into service errors.
func mapRepoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case repo.IsNotFound(err):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case repo.IsOutOfRange(err):
		return fmt.Errorf("%s: %w: %v", what, ErrValidation, err)
	case repo.IsConflict(err):
		return fmt.Errorf("%s: %w: %v", what, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
