package service

import (
	"errors"
	"fmt"

	"github.com/hongminglow/backoffice/internal/auth"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password
	// so callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrNotFound           = errors.New("identity not found")
	ErrInvalidStatus      = errors.New("invalid account status")
	// ErrPersistenceUnavailable wraps storage failures; the cause stays in the chain.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrUnknownRole            = errors.New("role not found")
	ErrDuplicateRole          = errors.New("role already exists")
	ErrInvalidPermission      = models.ErrInvalidPermission
	ErrPasswordTooLong        = auth.ErrPasswordTooLong
)

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
}

// lookupErr maps storage.ErrNotFound to notFound and wraps anything else.
func lookupErr(err, notFound error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return unavailable(err)
}
