// savectl inspects and edits save slots, either directly on the store or
// through a running savegame daemon.
//
// Usage:
//
//	savectl list                     - List save slots
//	savectl show <name>              - Print a save as YAML
//	savectl delete [--daemon] <name> - Delete a save
//	savectl delete-all               - Delete every save
//	savectl new                      - Start a new game on the daemon
//	savectl save                     - Save the daemon's game in progress
//	savectl load [-i] [name]         - Load a save on the daemon
//	savectl reload                   - Reload the daemon's game from its save
//	savectl status                   - Show the daemon's game in progress
//
// Defaults come from SAVEGAME_* environment variables and can be
// overridden with flags.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// settings are the environment defaults for the persistent flags.
type settings struct {
	Store    string        `env:"SAVEGAME_STORE" envDefault:"saves"`
	Format   string        `env:"SAVEGAME_FORMAT" envDefault:"json"`
	NatsURL  string        `env:"SAVEGAME_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	Timeout  time.Duration `env:"SAVEGAME_TIMEOUT" envDefault:"5s"`
	LogLevel string        `env:"SAVEGAME_LOG_LEVEL" envDefault:"warn"`
	Width    int           `env:"SAVEGAME_WIDTH" envDefault:"80"`
}

var (
	// Global flags
	flagStore    string
	flagFormat   string
	flagNatsURL  string
	flagTimeout  time.Duration
	flagLogLevel string
	flagWidth    int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := settings{}
	if err := env.Parse(&defaults); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "savectl",
		Short: "Manage savegame save slots",
		Long: `savectl manages save slots for the savegame daemon.

Offline commands work on the store directly:
  list, show, delete, delete-all
  (delete --daemon asks the daemon instead)

Session commands talk to a running daemon over nats:
  new, save, load, reload, status`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), flagLogLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagStore, "store", defaults.Store, "Save directory, or database file for sqlite")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", defaults.Format, "Store format: json, yaml or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagNatsURL, "nats", defaults.NatsURL, "Daemon nats url")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", defaults.Timeout, "Daemon request timeout")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaults.LogLevel, "Log level")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", defaults.Width, "Wrap output to this many columns")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newDeleteAllCmd())
	rootCmd.AddCommand(newSessionCmds()...)

	return rootCmd
}
