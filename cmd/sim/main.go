// Package main replays a scripted scenario headlessly and summarizes the run.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/game"
	"github.com/Faultbox/charctl/internal/game/scenario"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/trace"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Sim.Scenario == "" {
		fmt.Fprintln(os.Stderr, "Usage: sim -scenario <file.yaml> [-trace out.csv]")
		os.Exit(2)
	}

	sc, err := scenario.Load(cfg.Sim.Scenario)
	if err != nil {
		logger.Error("failed to load scenario", zap.Error(err))
		os.Exit(1)
	}

	if err := run(cfg, sc); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, sc *scenario.Scenario) error {
	rec, err := trace.NewRecorder(cfg.Trace.Path)
	if err != nil {
		return err
	}
	defer rec.Close()

	if rec != nil {
		// Keep the settings that produced the trace next to it.
		ext := filepath.Ext(rec.Path())
		cfgPath := strings.TrimSuffix(rec.Path(), ext) + ".config.yaml"
		if err := cfg.SaveTo(cfgPath); err != nil {
			return fmt.Errorf("saving run config: %w", err)
		}
	}

	g, err := game.New(cfg, sc.World, rec)
	if err != nil {
		return err
	}

	var records []trace.Record
	g.OnTick(func(r trace.Record) {
		records = append(records, r)
	})

	logger.Info("running scenario",
		zap.String("name", sc.Name),
		zap.Int("ticks", sc.Ticks),
		zap.Float32("dt", sc.Dt),
	)

	if err := g.RunTicks(scenario.NewPlayer(sc), sc.Ticks, sc.Dt); err != nil {
		return err
	}

	s := trace.Summarize(records)
	fields := []zap.Field{
		zap.Int("ticks", s.Ticks),
		zap.Float64("duration", s.Duration),
		zap.Float64("mean_horizontal_speed", s.MeanHorizontalSpeed),
		zap.Float64("max_horizontal_speed", s.MaxHorizontalSpeed),
		zap.Float64("max_height", s.MaxHeight),
		zap.Int("jumps", s.Jumps),
		zap.String("final", g.Status()),
	}
	for _, state := range s.States() {
		fields = append(fields, zap.Float64("time_"+state, s.TimeInState[state]))
	}
	if rec != nil {
		fields = append(fields, zap.String("trace", rec.Path()))
	}
	logger.Info("scenario complete", fields...)

	return rec.Close()
}
