package guard

import (
	"context"
	"fmt"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	repo "github.com/kvasnikov/sentinel/internal/repository/directory"
)

// Guard enforces the ownership relation between users and sensors.
//
// Sensors need no guard of their own: the authenticated sensor id is the
// ingestion target by construction, so a sensor can never touch another
// sensor's resources.
type Guard struct {
	// repo provides sensor existence lookups.
	repo repo.Repository
}

// NewGuard wraps the directory repository.
func NewGuard(repository repo.Repository) *Guard {
	return &Guard{repo: repository}
}

// OwnedSensor returns the sensor iff it exists and belongs to the user.
// Existence is checked before ownership, so an unauthorized caller probing a
// missing id sees ErrSensorNotFound, never ErrNotOwned.
func (g *Guard) OwnedSensor(ctx context.Context, userID uint, sensorID string) (*sensor.Sensor, error) {
	sens, err := g.repo.SensorByID(ctx, sensorID)
	if err != nil {
		return nil, fmt.Errorf("resolve sensor: %w", err)
	}

	if sens.OwnerID != userID {
		return nil, sensor.ErrNotOwned
	}

	return sens, nil
}
