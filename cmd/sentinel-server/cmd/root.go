package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kvasnikov/sentinel/internal/config"
	"github.com/kvasnikov/sentinel/internal/service/admin"
	"github.com/kvasnikov/sentinel/internal/service/server"
	"github.com/kvasnikov/sentinel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the HTTP server.
	rootCmd = &cobra.Command{
		Use:   "sentinel-server [listen-address]",
		Short: "Run the sensor monitoring HTTP server.",
		Long: `Starts the HTTP server that authenticates users and sensors, ingests
trigger events, maintains per-sensor escalation status and serves status
and history views to sensor owners.

The server listens on the configured address unless an explicit listen
address argument overrides it (e.g. :9000, 0.0.0.0:8000). The backing
store connection string comes from the settings file or DATABASE_URL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the sentinel-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	attachSeedCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}

// attachSeedCommands adds the out-of-band provisioning subcommands.
// Accounts and sensors are created by an operator, never through the API.
func attachSeedCommands(root *cobra.Command) {
	userOpts := new(admin.UserOptions)

	seedUserCmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user account in the directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userOpts.ConfigPath = configPath

			return admin.SeedUser(cmd.Context(), userOpts)
		},
	}

	seedUserCmd.Flags().StringVar(&userOpts.Name, "name", "", "display name")
	seedUserCmd.Flags().StringVar(&userOpts.Username, "username", "", "login name")
	seedUserCmd.Flags().StringVar(&userOpts.Email, "email", "", "contact email")
	seedUserCmd.Flags().StringVar(&userOpts.Secret, "secret", "", "account credential")

	for _, flag := range []string{"name", "username", "email", "secret"} {
		_ = seedUserCmd.MarkFlagRequired(flag)
	}

	sensorOpts := new(admin.SensorOptions)

	seedSensorCmd := &cobra.Command{
		Use:   "seed-sensor",
		Short: "Register a sensor for an existing user.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sensorOpts.ConfigPath = configPath

			return admin.SeedSensor(cmd.Context(), sensorOpts)
		},
	}

	seedSensorCmd.Flags().StringVar(&sensorOpts.ID, "id", "", "sensor id (generated when omitted)")
	seedSensorCmd.Flags().StringVar(&sensorOpts.Name, "name", "", "sensor label")
	seedSensorCmd.Flags().StringVar(&sensorOpts.Location, "location", "", "installation location")
	seedSensorCmd.Flags().UintVar(&sensorOpts.OwnerID, "owner", 0, "owning user id")
	seedSensorCmd.Flags().StringVar(&sensorOpts.Secret, "secret", "", "sensor credential")

	for _, flag := range []string{"name", "owner", "secret"} {
		_ = seedSensorCmd.MarkFlagRequired(flag)
	}

	root.AddCommand(seedUserCmd, seedSensorCmd)
}
