// Command wowlog parses World of Warcraft combat logs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wowlog/wowlog-go/internal/config"
)

var (
	// global flags
	verbose    bool
	configPath string

	// fileConfig is the loaded config file, or the defaults.
	fileConfig = config.Default()

	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "wowlog",
	Short: "Parse World of Warcraft combat logs",
	Long: `wowlog reads World of Warcraft combat logs (WoWCombatLog*.txt).

It validates and parses the "M/D HH:MM:SS.mmm  EVENT,field,..." line
format, reports malformed lines with their position, and can follow the
live log while the game writes it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		if configPath == "" {
			fileConfig = config.Default()
			return nil
		}
		f, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fileConfig = f
		logger.Debug("loaded config", "format", f.Format, "numbers", f.Numbers, "errors", f.Errors)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug output to stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"YAML config file (flags override its values)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
