package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TriggerToken is the line a motion sensor emits when it detects movement.
// Any other line is forwarded as a non-triggered observation.
const TriggerToken = "MOTION_DETECT"

// Forwarder posts trigger observations to the sentinel server with the
// sensor's Basic credentials. It carries no state between observations.
type Forwarder struct {
	// client performs the HTTP calls with a bounded timeout.
	client *http.Client
	// recordURL is the full ingestion endpoint.
	recordURL string
	// sensorID is the Basic auth login (the sensor's own id).
	sensorID string
	// secret is the sensor credential.
	secret string
}

// NewForwarder builds a forwarder for the given server and sensor credentials.
func NewForwarder(serverURL, sensorID, secret string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		client:    &http.Client{Timeout: timeout},
		recordURL: strings.TrimRight(serverURL, "/") + "/record",
		sensorID:  sensorID,
		secret:    secret,
	}
}

// observation is the ingestion payload.
type observation struct {
	IsTriggered bool `json:"is_triggered"`
}

// Forward posts one observation and verifies the server accepted it.
func (f *Forwarder) Forward(ctx context.Context, isTriggered bool) error {
	payload, err := json.Marshal(observation{IsTriggered: isTriggered})
	if err != nil {
		return fmt.Errorf("encode observation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.recordURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(f.sensorID, f.secret)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("post observation: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server rejected observation: %s", resp.Status)
	}

	return nil
}

// ParseLine maps one device line to an observation value.
func ParseLine(line string) bool {
	return strings.TrimSpace(line) == TriggerToken
}
