package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kvasnikov/sentinel/internal/service/relay"
	"github.com/kvasnikov/sentinel/internal/version"
)

var (
	// sensorID is the Basic auth login of the relayed sensor.
	sensorID string
	// secret is the sensor credential.
	secret string
	// devicePath is the line-oriented device to read; "-" reads stdin.
	devicePath string

	// rootCmd represents the base command for running the hardware relay.
	rootCmd = &cobra.Command{
		Use:   "sentinel-relay [server-url]",
		Short: "Forward motion events from a local device to the server.",
		Long: `Reads trigger lines from a serial device (or stdin) and forwards each
motion event to the sentinel server as an authenticated record.

Every MOTION_DETECT line becomes one POST to the record endpoint using the
sensor's own credentials. Delivery failures are logged and the relay keeps
reading; the process stops on SIGTERM/SIGINT or when the device closes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return relay.Run(ctx, &relay.Options{
				ServerURL:  args[0],
				SensorID:   sensorID,
				Secret:     secret,
				DevicePath: devicePath,
			})
		},
	}
)

// Execute runs the sentinel-relay CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&sensorID, "sensor", "s", "", "sensor id used for authentication")
	rootCmd.Flags().StringVarP(&secret, "secret", "p", "", "sensor credential")
	rootCmd.Flags().StringVarP(&devicePath, "device", "d", "-", "device path to read events from")

	for _, flag := range []string{"sensor", "secret"} {
		if err := rootCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}
