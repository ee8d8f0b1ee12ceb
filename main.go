// Package main provides the entrypoint for event-echo-app.
package main

import (
	"os"

	"github.com/isometry/event-echo-app/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
