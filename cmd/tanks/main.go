// tanks is a hot-seat tank duel for the terminal.
//
// Usage:
//
//	tanks list               - List available battlefields
//	tanks play [game]        - Play a duel
//	tanks menu               - Pick a battlefield interactively
//	tanks history [game]     - Show finished duels
//	tanks serve              - Start SSH server for remote play
//	tanks config [preset]    - Print a preset's YAML
//
// Global flags:
//
//	--fps <rate>      - UI tick rate (default: 30)
//	--seed <value>    - RNG seed for a reproducible setup
//	--db <path>       - Match database (default: ~/.tanks/matches.db)
//	--config <path>   - Custom config YAML
//	--preset <name>   - classic or arena
//	--p1, --p2 <name> - Player names
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagP1       string
	flagP2       string
	flagLogLevel string
)

var logFile *os.File

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tanks",
	Short: "Tanks - a hot-seat tank duel in your terminal",
	Long: `Tanks is a two-player, turn-based duel on a grid of sectors.

Take turns moving up to a few sectors in a straight line, pick up
weapons and shields, and fight it out when you end up next to the
other tank.

Available commands:
  list     - Show available battlefields
  play     - Play a duel directly
  menu     - Interactive battlefield picker
  history  - Finished duels and player records
  serve    - Start SSH server for remote play
  config   - Print a preset's configuration

Examples:
  tanks play
  tanks play --preset arena --p1 Alice --p2 Bob
  tanks menu
  tanks history --players
  tanks serve --ssh :2222`,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	SilenceUsage:       true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "UI tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tanks/matches.db", "Path to match database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", config.PresetClassic, "Battlefield preset: classic, arena")
	rootCmd.PersistentFlags().StringVar(&flagP1, "p1", "", "Name of the first player")
	rootCmd.PersistentFlags().StringVar(&flagP2, "p2", "", "Name of the second player")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup applies the global flags to the game package and opens the log file.
func setup(_ *cobra.Command, _ []string) error {
	if _, ok := config.PresetYAML(flagPreset); !ok {
		return fmt.Errorf("unknown preset %q (available: %v)", flagPreset, config.Presets())
	}
	tanks.SetConfigPath(flagConfig)
	tanks.SetPlayerNames(flagP1, flagP2)

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	logger, err := openLog(level)
	if err != nil {
		// The game works without a log file.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	tanks.SetLogger(logger)
	tui.SetLogger(logger)
	return nil
}

// openLog opens ~/.tanks/tanks.log. The terminal is in alt-screen mode
// while a game runs, so logs go to a file.
func openLog(level log.Level) (*log.Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot find home directory: %w", err)
	}
	dir := filepath.Join(home, ".tanks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "tanks.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           level,
	}), nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
