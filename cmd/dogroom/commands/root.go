package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// Persistent flags shared by every subcommand
var (
	configPath   string
	instanceName string
	driverName   string
	redisURL     string
	sqlitePath   string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dogroom",
	Short: "DogRoom - pet-sitting marketplace store",
	Long: `DogRoom manages the hosts, users, bookings and chat boards of a
pet-sitting marketplace.

Records live in Redis (default) or a local SQLite file. The demo dataset is
seeded on first use, and bookings are checked so a host is never booked
twice for overlapping dates.

Configuration is read from dogroom.yml when present and can be overridden
with DOGROOM_* environment variables or the flags below.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to dogroom.yml (default ./dogroom.yml if present)")
	flags.StringVarP(&instanceName, "name", "n", "", "Instance namespace for stored records")
	flags.StringVar(&driverName, "driver", "", "Storage driver: redis or sqlite")
	flags.StringVar(&redisURL, "redis-url", "", "Redis URL (driver=redis)")
	flags.StringVar(&sqlitePath, "sqlite", "", "SQLite database file (driver=sqlite)")
	flags.StringVarP(&outputFormat, "output", "o", formatTable, "Output format: table, jsonl or json")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return validateOutputFormat()
	}
}
