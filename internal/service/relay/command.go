package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kvasnikov/sentinel/internal/config"
	"github.com/kvasnikov/sentinel/internal/logger"
)

// Options controls the sentinel-relay process.
type Options struct {
	// ServerURL is the base URL of the sentinel server.
	ServerURL string
	// SensorID is the sensor identity the relay forwards for.
	SensorID string
	// Secret is the sensor credential.
	Secret string
	// DevicePath is the line-oriented device to read; "-" means stdin.
	DevicePath string
}

var (
	// errServerURLRequired is returned when no server URL is provided.
	errServerURLRequired = errors.New("server URL must be provided")
	// errCredentialsRequired is returned when the sensor id or secret is missing.
	errCredentialsRequired = errors.New("sensor id and secret must be provided")
)

// Run reads trigger lines from the device and forwards each one to the
// server until the stream ends or the context is canceled. The relay is a
// plain I/O pump: a failed forward is logged and dropped, because a physical
// sensor re-reports every detection anyway.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sentinel-relay")

	if opts.ServerURL == "" {
		return errServerURLRequired
	}

	if opts.SensorID == "" || opts.Secret == "" {
		return errCredentialsRequired
	}

	device, closeDevice, err := openDevice(opts.DevicePath)
	if err != nil {
		return err
	}
	defer closeDevice()

	forwarder := NewForwarder(opts.ServerURL, opts.SensorID, opts.Secret, config.DefaultTimeout)

	logger.InfoKV(ctx, "Relay started", "device", opts.DevicePath, "server_url", opts.ServerURL)

	return pump(ctx, device, forwarder)
}

// pump forwards observations line by line until EOF or cancellation.
func pump(ctx context.Context, device io.Reader, forwarder *Forwarder) error {
	scanner := bufio.NewScanner(device)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		isTriggered := ParseLine(scanner.Text())

		if err := forwarder.Forward(ctx, isTriggered); err != nil {
			logger.ErrorKV(ctx, "Forward failed", "error", err, "is_triggered", isTriggered)
			continue
		}

		logger.InfoKV(ctx, "Observation forwarded", "is_triggered", isTriggered)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read device: %w", err)
	}

	return nil
}

// openDevice opens the configured device path, treating "-" as stdin.
func openDevice(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open device: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
