// Package main is the entry point for the seismic2word CLI.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/seismic2word/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// settings is the merged flag/env/file configuration, loaded before any
// subcommand runs.
var settings *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "seismic2word",
	Short: "Convert Seismic pages into Word-ready HTML",
	Long: `seismic2word reads the markup of a Seismic page, rebuilds it as a
document of paragraphs, tables, dividers and accordions, and writes HTML
that Word imports with proper headings, bordered tables and nested lists.

Sections can be excluded before export; the outline comes from dividers,
accordions and headings inside paragraphs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		v, err := config.New(file)
		if err != nil {
			return err
		}
		if f := cmd.Flags().Lookup("log-level"); f != nil {
			if err := v.BindPFlag(config.KeyLogLevel, f); err != nil {
				return err
			}
		}
		settings = v
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./seismic2word.yaml or ~/.config/seismic2word/seismic2word.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

// newLogger builds the process logger: JSON for the server, text for
// one-shot commands.
func newLogger(w io.Writer, cfg config.Config, json bool) *slog.Logger {
	lvl, err := cfg.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
