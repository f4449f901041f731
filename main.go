package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/lanesim/internal/api"
	"github.com/banshee-data/lanesim/internal/config"
	"github.com/banshee-data/lanesim/internal/db"
	"github.com/banshee-data/lanesim/internal/sim"
	"github.com/banshee-data/lanesim/internal/sweep"
	"github.com/banshee-data/lanesim/internal/units"
	"github.com/banshee-data/lanesim/internal/version"
)

var (
	listen      = flag.String("listen", "", "Listen address (defaults to the config value, then :8080)")
	dbFile      = flag.String("db", "", "SQLite database path (defaults to the config value, then lanesim.db)")
	configPath  = flag.String("config", "", "Tuning config JSON file")
	unitsFlag   = flag.String("units", units.KPH, "Speed units for API responses: "+units.GetValidUnitsString())
	numCars     = flag.Int("cars", 0, "Cars in the live simulation (overrides config)")
	ratioFlag   = flag.Float64("ratio", -1, "Bad practice ratio for the live simulation (overrides config)")
	seedFlag    = flag.Int64("seed", 0, "RNG seed for the live simulation (0 seeds from the clock)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// overrideSimConfig applies command line overrides on top of a resolved
// simulation config. Zero cars, zero seed, and a negative ratio leave the
// base config untouched.
func overrideSimConfig(cfg sim.Config, cars int, ratio float64, seed int64) sim.Config {
	if cars > 0 {
		cfg.NumCars = cars
	}
	if ratio >= 0 {
		cfg.BadPracticeRatio = ratio
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if !units.IsValid(*unitsFlag) {
		log.Fatalf("Invalid units %q, want one of: %s", *unitsFlag, units.GetValidUnitsString())
	}

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		tuning = loaded
		log.Printf("Loaded tuning config from %s", *configPath)
	}

	addr := tuning.GetListenAddr()
	if *listen != "" {
		addr = *listen
	}
	dbPath := tuning.GetDBPath()
	if *dbFile != "" {
		dbPath = *dbFile
	}
	simCfg := overrideSimConfig(tuning.SimConfig(), *numCars, *ratioFlag, *seedFlag)

	database, err := db.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	host, err := api.NewSimHost(simCfg, tuning.GetTickInterval(), nil)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	server := api.NewServer(api.ServerConfig{
		SimHost: host,
		Runner:  sweep.NewRunner(),
		DB:      database,
		Units:   *unitsFlag,
	})

	log.Printf("lanesim %s", version.String())
	log.Printf("Live simulation: %d cars on %.0fm, bad practice ratio %.2f",
		simCfg.NumCars, simCfg.HighwayLength, simCfg.BadPracticeRatio)

	// Create a wait group for the simulation ticker and HTTP server routines
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// step the live simulation in the background
	wg.Add(1)
	go func() {
		defer wg.Done()
		host.RunTicker(ctx)
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := server.ServeMux()

		// mount the admin debugging routes
		database.AttachAdminRoutes(mux)

		httpServer := &http.Server{
			Addr:    addr,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Listening on %s", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
