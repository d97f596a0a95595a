package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/vacationbid/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the requested key
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownSecret is returned for secret names other than csrf-token and session-cookie
	ErrUnknownSecret = errors.New("unknown secret name")
)

// Credentials are the values the backend needs to accept write requests
type Credentials struct {
	CSRFToken     string
	SessionCookie string
}

// ValidSecret reports whether name is one of the secrets this app stores
func ValidSecret(name string) bool {
	return name == constants.KeyringCSRFUser || name == constants.KeyringCookieUser
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored under name.
func Get(name string) (string, error) {
	if !ValidSecret(name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownSecret, name)
	}
	value, err := keyring.Get(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring.
func Set(name, value string) error {
	if !ValidSecret(name) {
		return fmt.Errorf("%w: %s", ErrUnknownSecret, name)
	}
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, name, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(name string) error {
	if !ValidSecret(name) {
		return fmt.Errorf("%w: %s", ErrUnknownSecret, name)
	}
	if err := keyring.Delete(constants.AppName, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// Fill completes any empty field of creds from the keyring. Missing secrets
// are left empty; an unavailable keyring is reported only when something
// was actually needed.
func Fill(creds Credentials) (Credentials, error) {
	var firstErr error
	lookup := func(name string, dst *string) {
		if *dst != "" {
			return
		}
		v, err := Get(name)
		switch {
		case err == nil:
			*dst = v
		case errors.Is(err, ErrNotFound):
		default:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	lookup(constants.KeyringCSRFUser, &creds.CSRFToken)
	lookup(constants.KeyringCookieUser, &creds.SessionCookie)
	return creds, firstErr
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
