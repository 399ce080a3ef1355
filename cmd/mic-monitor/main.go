// Package main is the entry point for mic-monitor.
package main

import (
	"os"

	"github.com/mic-monitor/mic-monitor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
