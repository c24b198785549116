package query

import (
	"context"
	"fmt"
	"time"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	directory "github.com/kvasnikov/sentinel/internal/repository/directory"
	record "github.com/kvasnikov/sentinel/internal/repository/record"
	"github.com/kvasnikov/sentinel/internal/service/guard"
)

// UserView is the profile returned to an authenticated user.
type UserView struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SensorSummary is one row of the owned-sensor listing.
type SensorSummary struct {
	Name     string        `json:"name"`
	Status   sensor.Status `json:"status"`
	Location string        `json:"location"`
}

// RecordView is one trigger observation inside a sensor detail.
type RecordView struct {
	IsTriggered bool      `json:"is_triggered"`
	CreatedAt   time.Time `json:"created_at"`
}

// SensorDetail is the full read view of one owned sensor.
type SensorDetail struct {
	Name      string        `json:"name"`
	Status    sensor.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
	Location  string        `json:"location"`
	Records   []RecordView  `json:"records"`
}

// Service composes the directory, the record store and the access guard
// into the read views served to users.
type Service struct {
	// directory provides user and sensor lookups.
	directory directory.Repository
	// records provides the per-sensor event log.
	records record.Repository
	// guard resolves owned sensors with not-found before not-owned.
	guard *guard.Guard
	// defaultLimit is applied when a detail request omits records_limit.
	defaultLimit int
	// maxLimit caps requested limits to keep responses bounded.
	maxLimit int
}

// NewService wires the query service to its collaborators.
func NewService(
	dir directory.Repository,
	records record.Repository,
	g *guard.Guard,
	defaultLimit, maxLimit int,
) *Service {
	return &Service{
		directory:    dir,
		records:      records,
		guard:        g,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CurrentUser returns the profile of the authenticated user. The id comes
// from a successful authentication, so a miss here means the account vanished
// mid-session; that surfaces as not-found rather than a server fault.
func (s *Service) CurrentUser(ctx context.Context, userID uint) (*UserView, error) {
	user, err := s.directory.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &UserView{
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// OwnedSensors lists the user's sensors. Owning no sensors is a valid state
// and yields an empty slice, never an error.
func (s *Service) OwnedSensors(ctx context.Context, userID uint) ([]SensorSummary, error) {
	sensors, err := s.directory.SensorsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("owned sensors: %w", err)
	}

	summaries := make([]SensorSummary, 0, len(sensors))
	for _, sens := range sensors {
		summaries = append(summaries, SensorSummary{
			Name:     sens.Name,
			Status:   sens.Status,
			Location: sens.Location,
		})
	}

	return summaries, nil
}

// SensorDetail returns one owned sensor with its most recent records.
// A recordsLimit of zero means "use the configured default"; explicit
// non-positive limits are rejected. Limits above the configured cap are
// clamped rather than rejected.
func (s *Service) SensorDetail(
	ctx context.Context,
	userID uint,
	sensorID string,
	recordsLimit int,
) (*SensorDetail, error) {
	if recordsLimit < 0 {
		return nil, sensor.ErrInvalidLimit
	}

	if recordsLimit == 0 {
		recordsLimit = s.defaultLimit
	}

	if recordsLimit > s.maxLimit {
		recordsLimit = s.maxLimit
	}

	sens, err := s.guard.OwnedSensor(ctx, userID, sensorID)
	if err != nil {
		return nil, fmt.Errorf("sensor detail: %w", err)
	}

	records, err := s.records.ListRecent(ctx, sensorID, recordsLimit)
	if err != nil {
		return nil, fmt.Errorf("sensor detail: %w", err)
	}

	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, RecordView{
			IsTriggered: rec.IsTriggered,
			CreatedAt:   rec.CreatedAt,
		})
	}

	return &SensorDetail{
		Name:      sens.Name,
		Status:    sens.Status,
		UpdatedAt: sens.UpdatedAt,
		Location:  sens.Location,
		Records:   views,
	}, nil
}
