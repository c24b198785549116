package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	directory "github.com/kvasnikov/sentinel/internal/repository/directory"
	record "github.com/kvasnikov/sentinel/internal/repository/record"
	"github.com/kvasnikov/sentinel/internal/service/guard"
	"github.com/kvasnikov/sentinel/internal/testutil"
)

// fixture bundles the engine with its repositories over a fresh test store.
type fixture struct {
	svc     *Service
	dir     *directory.GormRepository
	records *record.GormRepository
	owner   *sensor.User
	sensor  *sensor.Sensor
}

// newFixture seeds one owner with one CALM sensor.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenDB(t)
	dir := directory.NewGormRepository(db)
	records := record.NewGormRepository(db)
	ctx := context.Background()

	owner := &sensor.User{Name: "Ada", Username: "ada", Email: "ada@example.com", Secret: "x"}
	require.NoError(t, dir.CreateUser(ctx, owner))

	s := &sensor.Sensor{
		ID:       uuid.NewString(),
		Name:     "porch",
		Location: "front porch",
		OwnerID:  owner.ID,
		Secret:   "12345678",
		Status:   sensor.StatusCalm,
	}
	require.NoError(t, dir.CreateSensor(ctx, s))

	return &fixture{
		svc:     NewService(dir, records, guard.NewGuard(dir)),
		dir:     dir,
		records: records,
		owner:   owner,
		sensor:  s,
	}
}

// status re-reads the sensor's current status from the store.
func (f *fixture) status(t *testing.T) sensor.Status {
	t.Helper()

	s, err := f.dir.SensorByID(context.Background(), f.sensor.ID)
	require.NoError(t, err)

	return s.Status
}

// TestIngest_EscalationScenario walks the reference scenario: two triggers
// escalate to ALERT, a non-trigger leaves ALERT, reset returns to CALM and
// all records stay retrievable.
func TestIngest_EscalationScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Ingest(ctx, f.sensor.ID, true)
	require.NoError(t, err)
	require.True(t, rec.IsTriggered)
	require.Equal(t, sensor.StatusWarning, f.status(t))

	_, err = f.svc.Ingest(ctx, f.sensor.ID, true)
	require.NoError(t, err)
	require.Equal(t, sensor.StatusAlert, f.status(t))

	_, err = f.svc.Ingest(ctx, f.sensor.ID, false)
	require.NoError(t, err)
	require.Equal(t, sensor.StatusAlert, f.status(t))

	reset, err := f.svc.Reset(ctx, f.owner.ID, f.sensor.ID)
	require.NoError(t, err)
	require.Equal(t, sensor.StatusCalm, reset.Status)
	require.Equal(t, sensor.StatusCalm, f.status(t))

	records, err := f.records.ListRecent(ctx, f.sensor.ID, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

// TestIngest_UpdatedAtAdvancesOnlyOnTransition checks the timestamp contract:
// transitions refresh UpdatedAt, no-ops leave it untouched.
func TestIngest_UpdatedAtAdvancesOnlyOnTransition(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	current := base
	f.svc.now = func() time.Time { return current }

	_, err := f.svc.Ingest(ctx, f.sensor.ID, true)
	require.NoError(t, err)

	s, err := f.dir.SensorByID(ctx, f.sensor.ID)
	require.NoError(t, err)
	require.Equal(t, base, s.UpdatedAt.UTC())

	// A non-trigger later must not move the timestamp.
	current = base.Add(time.Hour)

	_, err = f.svc.Ingest(ctx, f.sensor.ID, false)
	require.NoError(t, err)

	s, err = f.dir.SensorByID(ctx, f.sensor.ID)
	require.NoError(t, err)
	require.Equal(t, base, s.UpdatedAt.UTC())

	// WARNING -> ALERT refreshes it.
	current = base.Add(2 * time.Hour)

	_, err = f.svc.Ingest(ctx, f.sensor.ID, true)
	require.NoError(t, err)

	s, err = f.dir.SensorByID(ctx, f.sensor.ID)
	require.NoError(t, err)
	require.Equal(t, current, s.UpdatedAt.UTC())

	// ALERT -> ALERT is not a transition.
	current = base.Add(3 * time.Hour)

	_, err = f.svc.Ingest(ctx, f.sensor.ID, true)
	require.NoError(t, err)

	s, err = f.dir.SensorByID(ctx, f.sensor.ID)
	require.NoError(t, err)
	require.Equal(t, base.Add(2*time.Hour), s.UpdatedAt.UTC())
}

// TestIngest_UnknownSensor fails with not-found and appends nothing.
func TestIngest_UnknownSensor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Ingest(context.Background(), uuid.NewString(), true)
	require.ErrorIs(t, err, sensor.ErrSensorNotFound)
}

// TestReset_Authorization covers ownership and idempotence of reset.
func TestReset_Authorization(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	stranger := &sensor.User{Name: "Eve", Username: "eve", Email: "eve@example.com", Secret: "x"}
	require.NoError(t, f.dir.CreateUser(ctx, stranger))

	_, err := f.svc.Reset(ctx, stranger.ID, f.sensor.ID)
	require.ErrorIs(t, err, sensor.ErrNotOwned)

	_, err = f.svc.Reset(ctx, f.owner.ID, uuid.NewString())
	require.ErrorIs(t, err, sensor.ErrSensorNotFound)

	// Reset twice: still CALM, no error.
	_, err = f.svc.Reset(ctx, f.owner.ID, f.sensor.ID)
	require.NoError(t, err)

	reset, err := f.svc.Reset(ctx, f.owner.ID, f.sensor.ID)
	require.NoError(t, err)
	require.Equal(t, sensor.StatusCalm, reset.Status)
}

// TestIngest_ConcurrentTriggersAreSerialized runs two concurrent triggers on
// a CALM sensor and requires both transitions to land: the result must be
// ALERT, never a lost update stuck at WARNING.
func TestIngest_ConcurrentTriggersAreSerialized(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Ingest(ctx, f.sensor.ID, true)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, sensor.StatusAlert, f.status(t))

	records, err := f.records.ListRecent(ctx, f.sensor.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

// TestIngest_ManyConcurrentTriggers keeps the terminal state stable under load.
func TestIngest_ManyConcurrentTriggers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	const workers = 16

	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Ingest(ctx, f.sensor.ID, true)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, sensor.StatusAlert, f.status(t))

	records, err := f.records.ListRecent(ctx, f.sensor.ID, workers)
	require.NoError(t, err)
	require.Len(t, records, workers)
}
