package main

import (
	"fmt"
	"os"

	"github.com/cuemby/nurseduty/pkg/client"
	"github.com/cuemby/nurseduty/pkg/config"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nurseduty",
	Short: "nurseduty - nurse duty roster and schedule service",
	Long: `nurseduty stores the data behind a nurse duty scheduling front end:
the nurse roster, shift formula templates, group settings and the
published monthly schedules.

Run 'nurseduty serve' to start the HTTP API. The nurses, formulas,
settings and schedule commands talk to a running server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"nurseduty version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("server", client.DefaultServer, "API server address for client commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(nursesCmd)
	rootCmd.AddCommand(formulasCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// loadConfig reads --config and applies the storage and server flags the
// command defines on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("backend") {
		cfg.Storage.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("watch") {
		cfg.Storage.Watch, _ = flags.GetBool("watch")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// addStorageFlags registers the flags shared by commands that open the store
func addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", config.BackendFile, "Storage backend (file, bolt, redis)")
	cmd.Flags().String("data-dir", "data", "Data directory for documents")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().Bool("log-json", false, "Log as JSON")
}

func newClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.NewClient(server)
}
