package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseLine maps device lines to observations.
func TestParseLine(t *testing.T) {
	t.Parallel()

	require.True(t, ParseLine("MOTION_DETECT"))
	require.True(t, ParseLine("  MOTION_DETECT\r"))
	require.False(t, ParseLine("NO_MOTION"))
	require.False(t, ParseLine(""))
}

// TestForward posts the observation with sensor credentials and accepts 201.
func TestForward(t *testing.T) {
	t.Parallel()

	var got struct {
		triggered bool
		user      string
		pass      string
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/record", r.URL.Path)

		var ok bool
		got.user, got.pass, ok = r.BasicAuth()
		require.True(t, ok)

		var payload struct {
			IsTriggered bool `json:"is_triggered"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		got.triggered = payload.IsTriggered

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, "sensor-1", "12345678", time.Second)

	require.NoError(t, f.Forward(context.Background(), true))
	require.True(t, got.triggered)
	require.Equal(t, "sensor-1", got.user)
	require.Equal(t, "12345678", got.pass)
}

// TestForward_Rejected surfaces non-201 responses as errors.
func TestForward_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, "sensor-1", "wrong", time.Second)
	require.Error(t, f.Forward(context.Background(), false))
}

// TestPump forwards every line and keeps going past server rejections.
func TestPump(t *testing.T) {
	t.Parallel()

	var observations []bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			IsTriggered bool `json:"is_triggered"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		// Reject the second observation to exercise the drop-and-continue path.
		if len(observations) == 1 {
			observations = append(observations, payload.IsTriggered)
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		observations = append(observations, payload.IsTriggered)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	device := strings.NewReader("MOTION_DETECT\nMOTION_DETECT\nNO_MOTION\n")
	forwarder := NewForwarder(srv.URL, "sensor-1", "12345678", time.Second)

	require.NoError(t, pump(context.Background(), device, forwarder))
	require.Equal(t, []bool{true, true, false}, observations)
}

// TestPump_Cancellation stops between lines when the context is canceled.
func TestPump_Cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	device := strings.NewReader("MOTION_DETECT\n")
	forwarder := NewForwarder("http://127.0.0.1:0", "sensor-1", "12345678", time.Second)

	require.ErrorIs(t, pump(ctx, device, forwarder), context.Canceled)
}
