package directory

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	repo "github.com/kvasnikov/sentinel/internal/repository/directory"
)

// Service resolves presented credential pairs to principals.
// It is a pure lookup layer: nothing here mutates the directory.
type Service struct {
	// repo provides user and sensor lookups.
	repo repo.Repository
}

// NewService wraps the directory repository.
func NewService(repository repo.Repository) *Service {
	return &Service{repo: repository}
}

// AuthenticateUser resolves a username/secret pair to a user account.
// Unknown names and wrong secrets both return ErrBadCredentials so the
// response never reveals which half was wrong.
func (s *Service) AuthenticateUser(ctx context.Context, username, secret string) (*sensor.User, error) {
	user, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, sensor.ErrBadCredentials
		}

		return nil, fmt.Errorf("authenticate user: %w", err)
	}

	if !secretMatches(user.Secret, secret) {
		return nil, sensor.ErrBadCredentials
	}

	return user, nil
}

// AuthenticateSensor resolves a sensor id/secret pair to a sensor.
// The id doubles as the Basic auth login, which is what scopes every
// sensor operation to the sensor itself.
func (s *Service) AuthenticateSensor(ctx context.Context, id, secret string) (*sensor.Sensor, error) {
	sens, err := s.repo.SensorByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, sensor.ErrBadCredentials
		}

		return nil, fmt.Errorf("authenticate sensor: %w", err)
	}

	if !secretMatches(sens.Secret, secret) {
		return nil, sensor.ErrBadCredentials
	}

	return sens, nil
}

// isNotFound reports whether the lookup failed because the principal is absent.
func isNotFound(err error) bool {
	return errors.Is(err, sensor.ErrUserNotFound) || errors.Is(err, sensor.ErrSensorNotFound)
}

// secretMatches compares a stored credential with a presented one.
// Bcrypt-hashed rows are verified with bcrypt; anything else falls back to a
// constant-time plaintext comparison for parity with legacy directory data.
func secretMatches(stored, presented string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
