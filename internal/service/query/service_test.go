package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	directory "github.com/kvasnikov/sentinel/internal/repository/directory"
	record "github.com/kvasnikov/sentinel/internal/repository/record"
	"github.com/kvasnikov/sentinel/internal/service/guard"
	"github.com/kvasnikov/sentinel/internal/service/query"
	"github.com/kvasnikov/sentinel/internal/testutil"
)

const (
	testDefaultLimit = 10
	testMaxLimit     = 20
)

type fixture struct {
	svc     *query.Service
	dir     *directory.GormRepository
	records *record.GormRepository
	owner   *sensor.User
	sensor  *sensor.Sensor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenDB(t)
	dir := directory.NewGormRepository(db)
	records := record.NewGormRepository(db)
	ctx := context.Background()

	owner := &sensor.User{Name: "Grace Hopper", Username: "grace", Email: "grace@example.com", Secret: "x"}
	require.NoError(t, dir.CreateUser(ctx, owner))

	s := &sensor.Sensor{
		ID:        uuid.NewString(),
		Name:      "garage",
		Location:  "garage door",
		OwnerID:   owner.ID,
		Secret:    "x",
		Status:    sensor.StatusWarning,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, dir.CreateSensor(ctx, s))

	return &fixture{
		svc:     query.NewService(dir, records, guard.NewGuard(dir), testDefaultLimit, testMaxLimit),
		dir:     dir,
		records: records,
		owner:   owner,
		sensor:  s,
	}
}

// TestCurrentUser returns the profile or not-found for a vanished id.
func TestCurrentUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.CurrentUser(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", view.Name)
	require.Equal(t, "grace", view.Username)
	require.Equal(t, "grace@example.com", view.Email)

	_, err = f.svc.CurrentUser(ctx, f.owner.ID+100)
	require.ErrorIs(t, err, sensor.ErrUserNotFound)
}

// TestOwnedSensors_EmptyIsSuccess: a user owning nothing gets an empty list, not an error.
func TestOwnedSensors_EmptyIsSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	lonely := &sensor.User{Name: "Eve", Username: "eve", Email: "eve@example.com", Secret: "x"}
	require.NoError(t, f.dir.CreateUser(ctx, lonely))

	summaries, err := f.svc.OwnedSensors(ctx, lonely.ID)
	require.NoError(t, err)
	require.NotNil(t, summaries)
	require.Empty(t, summaries)

	summaries, err = f.svc.OwnedSensors(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "garage", summaries[0].Name)
	require.Equal(t, sensor.StatusWarning, summaries[0].Status)
}

// TestSensorDetail covers the happy path, limit handling and the error taxonomy.
func TestSensorDetail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	for i := range 15 {
		rec := &sensor.Record{
			SensorID:    f.sensor.ID,
			IsTriggered: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.records.Append(ctx, rec))
	}

	// Zero means "configured default".
	detail, err := f.svc.SensorDetail(ctx, f.owner.ID, f.sensor.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "garage", detail.Name)
	require.Equal(t, sensor.StatusWarning, detail.Status)
	require.Len(t, detail.Records, testDefaultLimit)

	// Newest first.
	require.Equal(t, base.Add(14*time.Minute), detail.Records[0].CreatedAt.UTC())

	// Explicit limit bounds the result.
	detail, err = f.svc.SensorDetail(ctx, f.owner.ID, f.sensor.ID, 3)
	require.NoError(t, err)
	require.Len(t, detail.Records, 3)

	// Requests above the cap are clamped, not rejected.
	detail, err = f.svc.SensorDetail(ctx, f.owner.ID, f.sensor.ID, 1000)
	require.NoError(t, err)
	require.Len(t, detail.Records, 15)

	// Negative limits are invalid.
	_, err = f.svc.SensorDetail(ctx, f.owner.ID, f.sensor.ID, -1)
	require.ErrorIs(t, err, sensor.ErrInvalidLimit)

	// Not owned: exists but forbidden.
	stranger := &sensor.User{Name: "Eve", Username: "eve2", Email: "eve2@example.com", Secret: "x"}
	require.NoError(t, f.dir.CreateUser(ctx, stranger))

	_, err = f.svc.SensorDetail(ctx, stranger.ID, f.sensor.ID, 0)
	require.ErrorIs(t, err, sensor.ErrNotOwned)

	// Missing: not-found, even for the stranger.
	_, err = f.svc.SensorDetail(ctx, stranger.ID, uuid.NewString(), 0)
	require.ErrorIs(t, err, sensor.ErrSensorNotFound)
}
