package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	clientcmd "github.com/vestflow/vestflow/internal/cmd/client"
	serverrun "github.com/vestflow/vestflow/internal/cmd/server"
	cfgpkg "github.com/vestflow/vestflow/internal/config"
	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vestflow",
		Short: "VestFlow runtime CLI",
		Long:  "VestFlow is a single-binary continuous payment streaming engine. This CLI manages the server and client operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the VestFlow server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			bootstrapToken, _ := cmd.Flags().GetString("bootstrap-token")
			bootstrapAdmin, _ := cmd.Flags().GetString("bootstrap-admin")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)

			// flags override file and env
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("http") {
				cfg.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("fsync") {
				cfg.Fsync = fsyncMode
			}
			if cmd.Flags().Changed("fsync-interval-ms") {
				cfg.FsyncIntervalMs = fsyncIntervalMs
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}
			if bootstrapToken != "" {
				cfg.Bootstrap.Token = bootstrapToken
			}
			if bootstrapAdmin != "" {
				cfg.Bootstrap.Admin = bootstrapAdmin
			}

			mode := pebblestore.FsyncModeAlways
			switch cfg.Fsync {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always", "":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid fsync mode %q; use always|interval|never", cfg.Fsync)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       cfg.DataDir,
				HTTPAddr:      cfg.HTTPAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(cfg.FsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to a JSON or YAML config file")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("VESTFLOW_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("VESTFLOW_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().String("bootstrap-token", "", "Token address to install with one-time init on a fresh store")
	serverStartCmd.Flags().String("bootstrap-admin", "", "Admin address to install with one-time init on a fresh store")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client commands
	rootCmd.AddCommand(clientcmd.NewInitCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewConfigCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewStreamCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewTokenCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("VESTFLOW_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
