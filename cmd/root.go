package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rug-factory/rug-sim/sim"
	"github.com/rug-factory/rug-sim/sim/allocator"
	"github.com/rug-factory/rug-sim/sim/metrics"
	"github.com/rug-factory/rug-sim/sim/trace"
)

var (
	// CLI flags for the factory model
	configPath        string  // YAML config file; flags override its values
	seed              int64   // Master seed for every jittered timer
	numMachines       int     // Number of printers
	orderInterval     int64   // Mean ticks between orders
	orderJitter       int64   // Uniform ± spread on the order interval
	simulationHorizon int64   // Total simulation time (in ticks)
	bundleLength      float64 // Full bundle length (ft)
	trashDuration     int64   // Ticks spent trashing material
	retryInterval     int64   // Ticks to wait after an unavailable answer
	printJitter       int64   // Uniform ± spread on print time
	allocationLatency int64   // Ticks between asking for a job and acting on it
	includeRush       bool    // Ask the service to include rush orders
	traceLevel        string  // Event trace verbosity

	// CLI flags for the allocation service and outputs
	allocatorURL   string        // Base URL of the allocation service
	scriptPath     string        // Replay responses from a YAML script instead of calling the service
	requestTimeout time.Duration // Per-request timeout for the allocation service
	logLevel       string        // Log verbosity level
	metricsFile    string        // Write Prometheus metrics here after the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rug-sim",
	Short: "Discrete-event simulator for a rug printing factory",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the factory simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		var alloc allocator.Allocator
		if scriptPath != "" {
			script, err := allocator.LoadScript(scriptPath)
			if err != nil {
				logrus.Fatalf("unable to load allocation script: %v", err)
			}
			alloc = script
			logrus.Infof("Replaying allocation responses from %s", scriptPath)
		} else {
			alloc = allocator.NewHTTPClient(allocatorURL, requestTimeout)
			logrus.Infof("Using allocation service at %s", allocatorURL)
		}

		logrus.Infof("Starting simulation with %d printers, horizon=%d ticks, bundle=%g ft, seed=%d",
			cfg.NumMachines, cfg.Horizon, cfg.BundleLength, cfg.Seed)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startTime := time.Now()
		if err := runSimulation(ctx, cfg, alloc, metricsFile, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// buildConfig starts from the defaults, applies the config file if given and
// then every flag the user set explicitly.
func buildConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadConfigFile(configPath); err != nil {
			return sim.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("machines") {
		cfg.NumMachines = numMachines
	}
	if flags.Changed("order-interval") {
		cfg.OrderInterval = orderInterval
	}
	if flags.Changed("order-jitter") {
		cfg.OrderJitter = orderJitter
	}
	if flags.Changed("horizon") {
		cfg.Horizon = simulationHorizon
	}
	if flags.Changed("bundle-length") {
		cfg.BundleLength = bundleLength
	}
	if flags.Changed("trash-duration") {
		cfg.TrashDuration = trashDuration
	}
	if flags.Changed("retry-interval") {
		cfg.RetryInterval = retryInterval
	}
	if flags.Changed("print-jitter") {
		cfg.PrintJitter = printJitter
	}
	if flags.Changed("allocation-latency") {
		cfg.AllocationLatency = allocationLatency
	}
	if flags.Changed("include-rush") {
		cfg.IncludeRush = includeRush
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = trace.TraceLevel(traceLevel)
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runSimulation runs one simulation, prints the report to w and optionally
// writes the Prometheus metrics.
func runSimulation(ctx context.Context, cfg sim.Config, alloc allocator.Allocator, metricsPath string, w io.Writer) error {
	collector := metrics.NewCollector()
	s, err := sim.NewSimulation(cfg, alloc, nil, collector)
	if err != nil {
		return err
	}
	m, err := s.Run(ctx)
	if m != nil {
		m.Print(w)
	}
	if err != nil {
		return fmt.Errorf("simulation interrupted: %w", err)
	}

	if s.Factory.Trace().Enabled() {
		summary := trace.Summarize(s.Factory.Trace())
		logrus.Infof("Trace: %d allocation requests, %d trash operations (%g ft), %d fragments",
			summary.TotalAllocations, len(s.Factory.Trace().Trash), summary.TotalTrashed, summary.FragmentsCreated)
	}

	if metricsPath != "" {
		if err := collector.WriteTextfile(metricsPath); err != nil {
			return fmt.Errorf("writing metrics file: %w", err)
		}
		logrus.Infof("Metrics written to %s", metricsPath)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (flags override its values)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for every jittered timer")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Factory model
	runCmd.Flags().IntVar(&numMachines, "machines", defaults.NumMachines, "Number of printers")
	runCmd.Flags().Int64Var(&orderInterval, "order-interval", defaults.OrderInterval, "Mean ticks between orders")
	runCmd.Flags().Int64Var(&orderJitter, "order-jitter", defaults.OrderJitter, "Uniform ± spread on the order interval (ticks)")
	runCmd.Flags().Int64Var(&simulationHorizon, "horizon", defaults.Horizon, "Total simulation horizon (in ticks)")
	runCmd.Flags().Float64Var(&bundleLength, "bundle-length", defaults.BundleLength, "Full bundle length (ft)")
	runCmd.Flags().Int64Var(&trashDuration, "trash-duration", defaults.TrashDuration, "Ticks a printer spends trashing material")
	runCmd.Flags().Int64Var(&retryInterval, "retry-interval", defaults.RetryInterval, "Ticks to wait when no job is available")
	runCmd.Flags().Int64Var(&printJitter, "print-jitter", defaults.PrintJitter, "Uniform ± spread on print time (ticks)")
	runCmd.Flags().Int64Var(&allocationLatency, "allocation-latency", defaults.AllocationLatency, "Ticks between asking for a job and acting on the answer")
	runCmd.Flags().BoolVar(&includeRush, "include-rush", defaults.IncludeRush, "Ask the allocation service to include rush orders")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(defaults.TraceLevel), "Event trace level (none, events)")

	// Allocation service and outputs
	runCmd.Flags().StringVar(&allocatorURL, "allocator-url", "http://localhost:8080", "Base URL of the allocation service")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "Replay allocation responses from a YAML script")
	runCmd.Flags().DurationVar(&requestTimeout, "request-timeout", 5*time.Second, "Timeout of one allocation request")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
