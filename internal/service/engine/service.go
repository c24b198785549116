package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	"github.com/kvasnikov/sentinel/internal/logger"
	directory "github.com/kvasnikov/sentinel/internal/repository/directory"
	record "github.com/kvasnikov/sentinel/internal/repository/record"
	"github.com/kvasnikov/sentinel/internal/service/guard"
)

// Service owns the sensor status state machine and orchestrates its
// persistence: one ingestion call applies the transition and appends the
// trigger record.
type Service struct {
	// directory persists sensor status transitions.
	directory directory.Repository
	// records appends trigger observations to the event log.
	records record.Repository
	// guard enforces ownership on reset requests.
	guard *guard.Guard
	// locks serializes read-modify-write of status per sensor id.
	locks keyedLocks
	// now supplies transition timestamps.
	now func() time.Time
}

// NewService wires the engine to its persistence and guard collaborators.
func NewService(dir directory.Repository, records record.Repository, g *guard.Guard) *Service {
	return &Service{
		directory: dir,
		records:   records,
		guard:     g,
		now:       time.Now,
	}
}

// Ingest applies one trigger observation reported by the authenticated sensor.
//
// The read of the current status and the write of the next one form a single
// logical step: a per-sensor lock guarantees concurrent triggers are applied
// in sequence and none is lost. The status write lands before the record
// append, so a crash in between loses at most the record, never duplicates
// either.
func (s *Service) Ingest(ctx context.Context, sensorID string, isTriggered bool) (*sensor.Record, error) {
	unlock := s.locks.lock(sensorID)
	defer unlock()

	sens, err := s.directory.SensorByID(ctx, sensorID)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	observedAt := s.now()

	next, changed := sensor.Apply(sens.Status, isTriggered)
	if changed {
		if err := s.directory.SaveSensorStatus(ctx, sensorID, next, observedAt); err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}

		logger.InfoKV(ctx, "Sensor status escalated",
			"sensor_id", sensorID, "from", sens.Status, "to", next)
	}

	rec := &sensor.Record{
		SensorID:    sensorID,
		IsTriggered: isTriggered,
		CreatedAt:   observedAt,
	}

	if err := s.records.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	return rec, nil
}

// Reset returns an owned sensor to CALM regardless of its current status and
// refreshes its transition timestamp. Resetting a CALM sensor is a no-op in
// effect but still succeeds, making the operation idempotent.
func (s *Service) Reset(ctx context.Context, userID uint, sensorID string) (*sensor.Sensor, error) {
	sens, err := s.guard.OwnedSensor(ctx, userID, sensorID)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}

	unlock := s.locks.lock(sensorID)
	defer unlock()

	resetAt := s.now()
	if err := s.directory.SaveSensorStatus(ctx, sensorID, sensor.StatusCalm, resetAt); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}

	logger.InfoKV(ctx, "Sensor status reset",
		"sensor_id", sensorID, "from", sens.Status, "user_id", userID)

	sens.Status = sensor.StatusCalm
	sens.UpdatedAt = resetAt

	return sens, nil
}

// keyedLocks hands out one mutex per sensor id.
// Entries are never evicted: the sensor fleet is small and static, and a
// stale mutex per retired sensor costs a few dozen bytes.
type keyedLocks struct {
	mutexes sync.Map
}

// lock acquires the mutex for the given key and returns its release func.
func (k *keyedLocks) lock(key string) func() {
	mu, _ := k.mutexes.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()

	return m.Unlock
}
