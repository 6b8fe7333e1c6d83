// Command epiworldsim runs one or more independent realizations of a
// TOML-configured epiworldgo model, writing each realization's recorded
// database to CSV or SQLite. Its flag set and per-instance loop follow
// _examples/kentwait-contagion/bin/contagion/main.go directly.
package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"epiworldgo/config"
	"epiworldgo/iolog"
)

func main() {
	numCPU := flag.Int("threads", runtime.NumCPU(), "number of CPU threads")
	loggerType := flag.String("logger", "csv", "output writer type (csv|sqlite)")
	seed := flag.Int64("seed", time.Now().UTC().UnixNano(), "random seed, defaults to the current Unix time in nanoseconds")
	days := flag.Int("days", 0, "override simulation.num_days from the config file (0 keeps the config value)")
	flag.Parse()

	runtime.GOMAXPROCS(*numCPU)

	configPath := flag.Arg(0)
	if configPath == "" {
		log.Fatal("usage: epiworldsim [flags] <config.toml>")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Simulation.Seed = *seed

	numDays := cfg.Simulation.NumDays
	if *days > 0 {
		numDays = *days
	}

	firstStart := time.Now()
	for i := 1; i <= cfg.Simulation.NumInstances; i++ {
		log.Printf("starting instance %03d", i)
		start := time.Now()

		m, err := cfg.NewModel()
		if err != nil {
			log.Fatalf("building model for instance %03d: %s", i, err)
		}
		m.Seed(uint64(*seed) + uint64(i))
		if err := m.Init(); err != nil {
			log.Fatalf("initializing instance %03d: %s", i, err)
		}
		if err := m.Reset(); err != nil {
			log.Fatalf("resetting instance %03d: %s", i, err)
		}
		if err := m.Run(numDays); err != nil {
			log.Fatalf("running instance %03d: %s", i, err)
		}

		logPath := "epiworldsim"
		if cfg.Logging != nil && cfg.Logging.Path != "" {
			logPath = cfg.Logging.Path
		}
		writerKind := *loggerType
		if cfg.Logging != nil && cfg.Logging.Writer != "" {
			writerKind = cfg.Logging.Writer
		}

		var w iolog.Writer
		switch writerKind {
		case "csv":
			w = iolog.NewCSVWriter(logPath, i)
		case "sqlite":
			w = iolog.NewSQLiteWriter(logPath, i)
		default:
			log.Fatalf("%s is not a valid logger type (csv|sqlite)", writerKind)
		}
		if err := w.Init(); err != nil {
			log.Fatalf("initializing writer for instance %03d: %s", i, err)
		}
		if err := w.Flush(m.Database()); err != nil {
			log.Fatalf("flushing instance %03d: %s", i, err)
		}
		if err := w.Close(); err != nil {
			log.Fatalf("closing writer for instance %03d: %s", i, err)
		}

		log.Printf("finished instance %03d in %s", i, time.Since(start))
	}
	log.Printf("completed all runs in %s", time.Since(firstStart))
}
