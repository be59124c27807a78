package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dendrascience/zipsync/internal/config"
	"github.com/dendrascience/zipsync/internal/logger"
	"github.com/dendrascience/zipsync/internal/metrics"
	"github.com/dendrascience/zipsync/version"
	"github.com/dendrascience/zipsync/zipsync"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by all subcommands once the persistent
// flags have been parsed.
type app struct {
	configPath      string
	debug           bool
	metricsTextfile string

	cfg      *config.Config
	log      *zap.Logger
	metrics  *metrics.Registry
	archiver *zipsync.Archiver
}

// NewRootCmd creates and returns the root cobra command for the zipsync CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "zipsync",
		Short: "zipsync - Keep directory trees and zip archives in sync",
		Long: `zipsync copies directory trees into zip archives and back.

Repeated runs converge: an existing archive can be updated in place, and
files are only replaced according to the chosen overwrite policy.

Use subcommands to perform different operations:
  - compress: Write a directory tree into a zip archive
  - uncompress: Extract a zip archive into a directory
  - list: Show the entries of an archive
  - verify: Check every entry of an archive against its checksum`,
		Version:           version.Get().String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML, JSON or TOML config file")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable development logging at debug level")
	rootCmd.PersistentFlags().StringVar(&a.metricsTextfile, "metrics-textfile", "", "Write run metrics to this file in the Prometheus text format")

	groupSync := "sync"
	groupInspect := "inspect"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupSync,
		Title: "Sync Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupInspect,
		Title: "Inspection Commands",
	})

	compressCmd := NewCompressCmd(a)
	uncompressCmd := NewUncompressCmd(a)
	listCmd := NewListCmd()
	verifyCmd := NewVerifyCmd()

	compressCmd.GroupID = groupSync
	uncompressCmd.GroupID = groupSync
	listCmd.GroupID = groupInspect
	verifyCmd.GroupID = groupInspect

	// Add subcommands
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(uncompressCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(verifyCmd)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("metrics-textfile") {
		cfg.Metrics.Textfile = a.metricsTextfile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Development, cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.metrics = metrics.NewRegistry()
	a.archiver = zipsync.New(
		zipsync.WithLogger(log),
		zipsync.WithObserver(a.metrics),
	)
	return nil
}

// run executes one pipeline, records its metrics and logs the flattened
// cause chain when it fails.
func (a *app) run(op zipsync.Operation, fn func() error) error {
	start := time.Now()
	err := fn()
	a.metrics.RecordRun(op, time.Since(start), err)

	if path := a.cfg.Metrics.Textfile; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			a.log.Warn("failed to write metrics textfile", zap.String("path", path), zap.Error(werr))
		}
	}

	if err != nil {
		fields := []zap.Field{zap.String("op", string(op))}
		var zerr *zipsync.Error
		if errors.As(err, &zerr) {
			fields = append(fields, zap.String("code", zerr.Code), zap.Strings("causes", strings.Split(strings.TrimSpace(zerr.Detail), "\n")))
		}
		a.log.Error("run failed", fields...)
	}
	return err
}
