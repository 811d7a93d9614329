package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/config"
)

var flagResolved bool

var configCmd = &cobra.Command{
	Use:   "config [preset]",
	Short: "Print a preset's configuration",
	Long: `Print the embedded YAML of a preset, ready to copy into
~/.tanks/configs/<preset>.yaml and edit.

With --resolved, prints the configuration a duel would actually use
after the search order (--config, ~/.tanks/configs, ./configs, embedded).

Examples:
  tanks config
  tanks config arena > ~/.tanks/configs/arena.yaml
  tanks config --resolved --config ./my-tanks.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagResolved, "resolved", false, "Print the loaded and validated configuration")
}

func runConfig(_ *cobra.Command, args []string) {
	preset := flagPreset
	if len(args) == 1 {
		preset = args[0]
	}

	if !flagResolved {
		data, ok := config.PresetYAML(preset)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown preset %q (available: %v)\n", preset, config.Presets())
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	cfg, err := config.Load(flagConfig, preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
