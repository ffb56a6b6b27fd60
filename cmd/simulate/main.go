package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/benklinger/kamaole/internal/simulate"
)

// Default configuration constants.
const (
	defaultRounds     = 100
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		date    = flag.String("date", "", "Day key to play in DD/MM/YYYY form (default: today)")
		rounds  = flag.Int("rounds", defaultRounds, "Number of guessing rounds to play")
		workers = flag.Int("workers", runtime.NumCPU(), "Number of concurrent players")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Log file for simulation output (default: simulate_log_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL: *baseURL,
		Date:    *date,
		Rounds:  *rounds,
		Workers: *workers,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
