package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"slotbook/internal/config"
)

// rootCmd represents the base command for the slotbook application
var rootCmd = &cobra.Command{
	Use:   "slotbook",
	Short: "Books one-hour lesson slots against your calendars",
	Long: `slotbook resolves availability across one or more calendars and books
one-hour slots only when they are still free at commit time.

It can run as:
  - A standalone CLI tool (default: show availability)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

var configPath string

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// loadConfig loads the application config from --config or the
// per-user default location.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "slotbook version %s\n" .Version}}`)

	// If no subcommand is provided, show availability by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "availability")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: per-user config directory)")

	rootCmd.AddCommand(newAvailabilityCmd())
	rootCmd.AddCommand(newBookCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
