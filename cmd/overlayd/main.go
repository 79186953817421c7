package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/overlayd/internal/config"
	"codeberg.org/mutker/overlayd/internal/history"
	"codeberg.org/mutker/overlayd/internal/logger"
	"codeberg.org/mutker/overlayd/internal/pid"
	"codeberg.org/mutker/overlayd/internal/platform"
	"codeberg.org/mutker/overlayd/internal/telemetry"
	"codeberg.org/mutker/overlayd/internal/tier"
)

var (
	cfg      *config.Config
	recorder history.Recorder
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	debug := cfg.LogLevel == config.LogLevelDebug.String()
	verbose := cfg.LogLevel == config.LogLevelInfo.String()
	logger.Init(debug, verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer pid.Remove()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.History {
		var err error
		recorder, err = history.NewRepository(history.Config{
			DBPath:  cfg.HistoryDB,
			Enabled: true,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize history")
		}
		defer closeRecorder()
	}

	thermal, closeThermal := buildThermalSource()
	defer closeThermal()
	memory := platform.NewMeminfoSource(uint64(cfg.MemoryThreshold))

	sampler := telemetry.NewSampler(thermal, memory, time.Duration(cfg.Interval)*time.Second)
	controller := tier.NewController(cfg.UpgradeStability)

	wireTierPipeline(sampler, controller)

	// Push half of the thermal input: band changes land between ticks.
	if sysfs, ok := thermal.(*platform.SysfsThermal); ok {
		go sysfs.Watch(ctx, time.Duration(cfg.Interval)*time.Second, sampler.NotifyThermal)
	}

	// Live retuning of the upgrade pacing.
	if path := os.Getenv("OVERLAYD_CONFIG"); path != "" {
		go config.Watch(ctx, path, func(next *config.Config) {
			controller.SetStability(next.UpgradeStability)
			logger.Info().Int("upgrade_stability", next.UpgradeStability).Msg("config reloaded")
		})
	}

	logger.Info().
		Int("interval", cfg.Interval).
		Int("upgrade_stability", cfg.UpgradeStability).
		Bool("history", cfg.History).
		Msg("overlayd started")

	sampler.Run(ctx)

	logger.Info().Msg("Exiting...")
}

// wireTierPipeline feeds every snapshot through the classifier into the
// hysteresis controller and records the results.
func wireTierPipeline(sampler *telemetry.Sampler, controller *tier.Controller) {
	sampler.Snapshots().Subscribe(func(s telemetry.Snapshot) {
		ideal := tier.ClassifySnapshot(s)
		before := controller.Current()
		current := controller.Apply(ideal)

		logger.Debug().
			Str("thermal", s.Thermal.String()).
			Str("memory", s.Memory.String()).
			Str("ideal", ideal.String()).
			Str("current", current.String()).
			Msg("Sample classified")

		if recorder == nil {
			return
		}

		if err := recorder.RecordSnapshot(&history.SnapshotRow{
			Timestamp:   s.Time,
			Thermal:     int(s.Thermal),
			Memory:      int(s.Memory),
			IdealTier:   ideal.Level(),
			CurrentTier: current.Level(),
		}); err != nil {
			logger.Error().Err(err).Msg("failed to record snapshot")
		}

		if current != before {
			reason := "upgrade"
			if current.Level() < before.Level() {
				reason = "downgrade"
			}
			if err := recorder.RecordTransition(&history.TransitionRow{
				Timestamp: s.Time,
				FromTier:  before.Level(),
				ToTier:    current.Level(),
				Reason:    reason,
			}); err != nil {
				logger.Error().Err(err).Msg("failed to record transition")
			}
		}
	})
}

func buildThermalSource() (telemetry.ThermalSource, func()) {
	if cfg.NVML {
		source, err := platform.NewNVMLThermal()
		if err == nil {
			return source, func() {
				if err := source.Close(); err != nil {
					logger.Error().Err(err).Msg("failed to shut down NVML")
				}
			}
		}
		logger.Warn().Err(err).Msg("NVML unavailable, falling back to sysfs")
	}

	if _, err := os.Stat(cfg.ThermalZone); err != nil {
		// No thermal API on this platform: a configuration fact, not an
		// error. The sampler reads a nil source as Normal.
		logger.Warn().Str("zone", cfg.ThermalZone).Msg("no thermal zone, assuming normal")
		return nil, func() {}
	}

	return platform.NewSysfsThermal(cfg.ThermalZone), func() {}
}

func closeRecorder() {
	if err := recorder.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close history")
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
