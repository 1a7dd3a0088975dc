// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command cycles-render is the thin CLI surface over the cycles
// render-session core described in spec.md §6.
package main

import (
	"os"

	"github.com/gocycles/cycles/cmd/cycles-render/cli"
)

func main() {
	os.Exit(cli.Execute())
}
