package record

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
)

// Repository defines the append-only trigger event log.
type Repository interface {
	Append(ctx context.Context, rec *sensor.Record) error
	ListRecent(ctx context.Context, sensorID string, limit int) ([]sensor.Record, error)
}

// GormRepository persists trigger records through an injected gorm handle.
type GormRepository struct {
	// db is the shared store handle, constructed at startup.
	db *gorm.DB
}

// NewGormRepository wraps the provided store handle.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Append stores one trigger observation. Records are immutable once created;
// there is no update or delete path.
func (r *GormRepository) Append(ctx context.Context, rec *sensor.Record) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append record for sensor %q: %w", rec.SensorID, err)
	}

	return nil
}

// ListRecent returns up to limit records for the sensor, newest first.
// Each call is a fresh snapshot of the log, not a live cursor.
func (r *GormRepository) ListRecent(ctx context.Context, sensorID string, limit int) ([]sensor.Record, error) {
	if limit <= 0 {
		return nil, sensor.ErrInvalidLimit
	}

	records := make([]sensor.Record, 0, limit)
	if err := r.db.WithContext(ctx).
		Where("sensor_id = ?", sensorID).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records of sensor %q: %w", sensorID, err)
	}

	return records, nil
}
