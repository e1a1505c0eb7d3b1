package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tkjaer/eping/internal/version"
)

type Args struct {
	Destination     string
	DestinationPort uint16

	// Timing
	Count   uint
	Period  time.Duration
	Timeout time.Duration

	// Output
	Json     bool   // output json to stdout
	JsonFile string // output json to file while keeping console output

	// Logging
	Log      string // log file path, empty means no log file
	LogLevel string // log level: debug, info, warn, error
}

func ParseArgs() (Args, error) {
	args, showVersion, err := parseArgs(os.Args[1:])
	if err != nil {
		return args, err
	}

	// Handle version flag
	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	return args, nil
}

func parseArgs(arguments []string) (Args, bool, error) {
	var args Args
	var showVersion bool

	flags := flag.NewFlagSet("eping", flag.ContinueOnError)

	// Set custom usage message
	flags.Usage = func() {
		println("eping - UDP echo latency prober")
		println()
		println("Measures round-trip latency to an echo responder by sending probes on a fixed-period schedule.")
		println()
		println("Usage:")
		println("  eping [OPTIONS] DESTINATION PORT COUNT PERIOD_MS TIMEOUT_MS")
		println()
		println("Examples:")
		println("  eping 192.0.2.1 4000 10 1000 1000          # 10 probes, 1s apart, 1s timeout")
		println("  eping -J echo.example.com 4000 5 200 100   # JSON to stdout")
		println("  eping -j results.json 192.0.2.1 4000 5 200 100")
		println()
		println("Options:")
		println(flags.FlagUsages())
		println("Documentation: https://github.com/tkjaer/eping")
		println("Report issues: https://github.com/tkjaer/eping/issues")
	}

	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.BoolVarP(&args.Json, "json", "J", false, "Write JSON output to stdout (disables console lines)")
	flags.StringVarP(&args.JsonFile, "json-file", "j", "", "Write JSON output to file (keeps console output)")
	flags.StringVarP(&args.Log, "log", "l", "", "Diagnostic log file (empty = stderr only)")
	flags.StringVar(&args.LogLevel, "log-level", "error", "Log level: debug, info, warn, error")
	if err := flags.Parse(arguments); err != nil {
		return args, false, err
	}

	if showVersion {
		return args, true, nil
	}

	positional := flags.Args()
	if len(positional) != 5 {
		flags.Usage()
		return args, false, errors.New("expected <destination_address> <destination_port> <probe_count> <period_ms> <timeout_ms>")
	}
	args.Destination = positional[0]

	port, err := strconv.ParseUint(positional[1], 10, 64)
	if err != nil {
		return args, false, fmt.Errorf("invalid destination port %q", positional[1])
	}
	count, err := strconv.ParseUint(positional[2], 10, 64)
	if err != nil {
		return args, false, fmt.Errorf("invalid probe count %q", positional[2])
	}
	period, err := strconv.ParseUint(positional[3], 10, 64)
	if err != nil {
		return args, false, fmt.Errorf("invalid period %q", positional[3])
	}
	timeout, err := strconv.ParseUint(positional[4], 10, 64)
	if err != nil {
		return args, false, fmt.Errorf("invalid timeout %q", positional[4])
	}

	switch {
	case port == 0 || port > 65535:
		return args, false, errors.New("destination port must be between 1 and 65535")
	case count < 1 || count > 65535:
		return args, false, errors.New("probe count must be between 1 and 65535")
	case args.Json && args.JsonFile != "":
		return args, false, errors.New("cannot use both --json and --json-file")
	}

	args.DestinationPort = uint16(port)
	args.Count = uint(count)
	args.Period = time.Duration(period) * time.Millisecond
	args.Timeout = time.Duration(timeout) * time.Millisecond

	return args, false, nil
}
