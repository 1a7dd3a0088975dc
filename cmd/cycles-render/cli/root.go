// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cli implements cycles-render's command-line surface: flag
// parsing, config loading, device/shading-system validation, and
// driving a session.Session to completion.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gocycles/cycles/device"
	"github.com/gocycles/cycles/session"
)

var (
	cfg         = DefaultConfig()
	configPath  string
	logFilePath string
	listDevices bool

	// Version is set via -ldflags at build time.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "cycles-render [scene-file]",
	Short:   "Render a scene with the cycles path-tracing core",
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&logFilePath, "log-file", "", "path to a rotating log file (only used with --background)")
	flags.StringVar(&cfg.Device, "device", cfg.Device, "render device (cpu)")
	flags.StringVar(&cfg.ShadingSys, "shadingsys", cfg.ShadingSys, "shading system (svm|osl)")
	flags.BoolVar(&cfg.Background, "background", cfg.Background, "render without an interactive viewport")
	flags.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress informational output")
	flags.IntVar(&cfg.Samples, "samples", cfg.Samples, "samples per pixel")
	flags.StringVar(&cfg.Output, "output", cfg.Output, "output file path")
	flags.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker thread count (stored in session.Params.Threads; the session loop does not read it)")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "render width in pixels")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "render height in pixels")
	flags.BoolVar(&listDevices, "list-devices", false, "list available render devices and exit")
}

// Execute runs the CLI and returns the process exit code; it never
// calls os.Exit itself so tests can invoke it directly.
func Execute() int {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cycles-render:", err)
		return 1
	}
	return exitCode
}

// exitCode is set by run so Execute can report a non-zero status for a
// render that stops early: run returns nil in that case, so cobra does
// not print it as an error. Configuration and validation failures are
// returned as errors and reach Execute's own err branch.
var exitCode int

func run(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			exitCode = 1
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if len(args) == 1 {
		cfg.ScenePath = args[0]
	}

	zapLogger, closeLogging := setupLogging(cfg.Quiet, cfg.Background, logFilePath)
	defer closeLogging()

	if listDevices {
		fmt.Println("cpu")
		return nil
	}

	if err := validateConfig(cfg); err != nil {
		zapLogger.Error("invalid configuration", zap.Error(err))
		exitCode = 1
		return err
	}

	params := session.DefaultParams()
	params.Background = cfg.Background
	params.Threads = cfg.Threads

	s := session.New(&noopDriver{}, params, session.BufferParams{Width: cfg.Width, Height: cfg.Height}, cfg.Samples)
	zapLogger.Info("starting render",
		zap.String("device", cfg.Device),
		zap.String("shadingsys", cfg.ShadingSys),
		zap.Int("samples", cfg.Samples),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	s.Start(cmd.Context())
	if err := s.Wait(); err != nil {
		zapLogger.Warn("render stopped early", zap.Error(err))
		exitCode = 1
		return nil // cancellation is not a configuration/parse error; exit status still reflects it via exitCode
	}

	zapLogger.Info("render finished", zap.Int("tiles_done", s.Progress.RenderedTiles()))
	return nil
}

// validateConfig enforces spec.md §6/§7's CLI-boundary checks: unknown
// device, unsupported shading-system/device pair, and negative samples
// all exit non-zero before a session is ever constructed.
func validateConfig(c *Config) error {
	switch c.Device {
	case "cpu":
	default:
		return fmt.Errorf("unknown device %q", c.Device)
	}
	switch c.ShadingSys {
	case "svm":
	case "osl":
		if c.Device != "cpu" {
			return fmt.Errorf("shading system %q is not supported on device %q", c.ShadingSys, c.Device)
		}
	default:
		return fmt.Errorf("unknown shading system %q", c.ShadingSys)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", c.Samples)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// noopDriver is a device.Driver that accepts every task immediately
// without doing any kernel work — ray/shading kernels and device
// back-ends are out of scope for this module, so cycles-render wires
// this in to exercise the full session/tile scheduling pipeline
// end-to-end without a real renderer behind it.
type noopDriver struct {
	cancelled bool
}

func (d *noopDriver) Kind() device.Kind { return device.KindCPU }
func (d *noopDriver) Capabilities() device.Capabilities {
	return device.Capabilities{MaxTextureSize: 16384, VendorName: "gocycles", DeviceName: "cpu-noop"}
}
func (d *noopDriver) SubmitTask(ctx context.Context, _ device.Task) error { return ctx.Err() }
func (d *noopDriver) TaskWait(ctx context.Context) error {
	if d.cancelled {
		return device.ErrCancelled
	}
	return ctx.Err()
}
func (d *noopDriver) TaskCancel()                                        { d.cancelled = true }
func (d *noopDriver) GetCancel() bool                                    { return d.cancelled }
