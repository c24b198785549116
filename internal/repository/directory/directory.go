package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
)

// Repository defines lookup and status persistence operations over the
// user and sensor directory.
type Repository interface {
	UserByID(ctx context.Context, id uint) (*sensor.User, error)
	UserByUsername(ctx context.Context, username string) (*sensor.User, error)
	SensorByID(ctx context.Context, id string) (*sensor.Sensor, error)
	SensorsByOwner(ctx context.Context, ownerID uint) ([]sensor.Sensor, error)
	SaveSensorStatus(ctx context.Context, id string, status sensor.Status, updatedAt time.Time) error
	CreateUser(ctx context.Context, user *sensor.User) error
	CreateSensor(ctx context.Context, s *sensor.Sensor) error
}

// GormRepository persists users and sensors through an injected gorm handle.
type GormRepository struct {
	// db is the shared store handle, constructed at startup.
	db *gorm.DB
}

// NewGormRepository wraps the provided store handle.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// UserByID fetches a user by primary key.
func (r *GormRepository) UserByID(ctx context.Context, id uint) (*sensor.User, error) {
	var user sensor.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sensor.ErrUserNotFound
		}

		return nil, fmt.Errorf("fetch user %d: %w", id, err)
	}

	return &user, nil
}

// UserByUsername fetches a user by login name.
func (r *GormRepository) UserByUsername(ctx context.Context, username string) (*sensor.User, error) {
	var user sensor.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sensor.ErrUserNotFound
		}

		return nil, fmt.Errorf("fetch user %q: %w", username, err)
	}

	return &user, nil
}

// SensorByID fetches a sensor by identifier.
func (r *GormRepository) SensorByID(ctx context.Context, id string) (*sensor.Sensor, error) {
	var s sensor.Sensor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sensor.ErrSensorNotFound
		}

		return nil, fmt.Errorf("fetch sensor %q: %w", id, err)
	}

	return &s, nil
}

// SensorsByOwner lists all sensors registered to the given user.
// An empty result is a valid outcome, not an error.
func (r *GormRepository) SensorsByOwner(ctx context.Context, ownerID uint) ([]sensor.Sensor, error) {
	sensors := make([]sensor.Sensor, 0)
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&sensors).Error; err != nil {
		return nil, fmt.Errorf("list sensors of user %d: %w", ownerID, err)
	}

	return sensors, nil
}

// SaveSensorStatus persists a status transition together with its timestamp.
func (r *GormRepository) SaveSensorStatus(
	ctx context.Context,
	id string,
	status sensor.Status,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&sensor.Sensor{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": updatedAt})
	if result.Error != nil {
		return fmt.Errorf("save status of sensor %q: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return sensor.ErrSensorNotFound
	}

	return nil
}

// CreateUser inserts a new user account.
func (r *GormRepository) CreateUser(ctx context.Context, user *sensor.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}

	return nil
}

// CreateSensor inserts a new sensor registration.
func (r *GormRepository) CreateSensor(ctx context.Context, s *sensor.Sensor) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create sensor %q: %w", s.ID, err)
	}

	return nil
}
