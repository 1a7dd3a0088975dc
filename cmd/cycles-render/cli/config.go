// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

// Config is the on-disk (TOML) shape of cycles-render's settings,
// overridden by whichever CLI flags the caller actually passed. Field
// names follow spec.md §6's flag list 1:1.
type Config struct {
	Device      string `toml:"device"`
	ShadingSys  string `toml:"shadingsys"`
	Background  bool   `toml:"background"`
	Quiet       bool   `toml:"quiet"`
	Samples     int    `toml:"samples"`
	Output      string `toml:"output"`
	Threads     int    `toml:"threads"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	ScenePath   string `toml:"scene"`
}

// DefaultConfig returns Config with the values cycles-render falls back
// to when neither a config file nor a flag sets them.
func DefaultConfig() *Config {
	return &Config{
		Device:     "cpu",
		ShadingSys: "svm",
		Samples:    128,
		Width:      1920,
		Height:     1080,
	}
}
