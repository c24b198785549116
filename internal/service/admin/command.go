package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/kvasnikov/sentinel/internal/config"
	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	"github.com/kvasnikov/sentinel/internal/logger"
	"github.com/kvasnikov/sentinel/internal/repository"
	directoryrepo "github.com/kvasnikov/sentinel/internal/repository/directory"
)

// UserOptions describes a user account to create.
type UserOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Name is the display name of the account holder.
	Name string
	// Username is the Basic auth login.
	Username string
	// Email is the contact address.
	Email string
	// Secret is the credential; stored as a bcrypt hash.
	Secret string
}

// SensorOptions describes a sensor registration to create.
type SensorOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ID is the sensor identifier; generated when empty.
	ID string
	// Name is the human-readable sensor label.
	Name string
	// Location describes where the sensor is installed.
	Location string
	// OwnerID is the id of the owning user.
	OwnerID uint
	// Secret is the credential; stored as a bcrypt hash.
	Secret string
}

// SeedUser creates a user account in the directory.
func SeedUser(ctx context.Context, opts *UserOptions) error {
	ctx = logger.WithName(ctx, "seed-user")

	directory, cleanup, err := openDirectory(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}

	user := &sensor.User{
		Name:     opts.Name,
		Username: opts.Username,
		Email:    opts.Email,
		Secret:   string(hash),
	}

	if err := directory.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.InfoKV(ctx, "User created", "user_id", user.ID, "username", user.Username)

	return nil
}

// SeedSensor registers a sensor for an existing user.
func SeedSensor(ctx context.Context, opts *SensorOptions) error {
	ctx = logger.WithName(ctx, "seed-sensor")

	directory, cleanup, err := openDirectory(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	// The owner must exist before a sensor can reference it.
	if _, err := directory.UserByID(ctx, opts.OwnerID); err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}

	s := &sensor.Sensor{
		ID:       id,
		Name:     opts.Name,
		Location: opts.Location,
		OwnerID:  opts.OwnerID,
		Secret:   string(hash),
		Status:   sensor.StatusCalm,
	}

	if err := directory.CreateSensor(ctx, s); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Sensor created", "sensor_id", s.ID, "owner_id", s.OwnerID)

	return nil
}

// openDirectory loads settings, opens the store and returns the directory
// repository with a cleanup func for the underlying handle.
func openDirectory(configPath string) (*directoryrepo.GormRepository, func(context.Context), error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	cleanup := func(ctx context.Context) {
		if closeErr := repository.Close(db); closeErr != nil {
			logger.Errorf(ctx, "Failed to close store: %v", closeErr)
		}
	}

	return directoryrepo.NewGormRepository(db), cleanup, nil
}
