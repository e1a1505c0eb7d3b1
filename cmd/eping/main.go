package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tkjaer/eping/internal/config"
	"github.com/tkjaer/eping/internal/probe"
)

func main() {
	args, err := config.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logFile, err := config.SetupLogging(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	slog.Debug("Starting echo prober",
		"destination", args.Destination,
		"port", args.DestinationPort,
		"count", args.Count,
	)

	pm, err := probe.NewProbeManager(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create probe manager: %v\n", err)
		os.Exit(1)
	}

	if err := pm.Run(); err != nil {
		slog.Error("Probe manager error", "error", err)
		os.Exit(1)
	}

	slog.Debug("Echo prober completed")
}
