package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/lanesim/internal/db"
	"github.com/banshee-data/lanesim/internal/fsutil"
	"github.com/banshee-data/lanesim/internal/sweep"
	"github.com/banshee-data/lanesim/internal/version"
)

var (
	// Sweep parameters
	ratios  = flag.String("ratios", "", "Bad-practice ratios: comma-separated values (0,0.5,1) or a min:max:step range (default 0:1:0.1)")
	trials  = flag.Int("trials", sweep.DefaultTrials, "Trials per ratio")
	steps   = flag.Int("steps", sweep.DefaultMaxSteps, "Tick budget per trial")
	cars    = flag.Int("cars", 0, "Cars per trial (0 uses the engine default)")
	length  = flag.Float64("length", 0, "Highway length in meters (0 uses the engine default)")
	spawn   = flag.Float64("spawn", 0, "Spawn probability per tick (0 uses the engine default)")
	seed    = flag.Int64("seed", 0, "Base RNG seed (0 seeds from the clock)")
	workers = flag.Int("workers", 0, "Worker pool size (0 sizes the pool to the CPU count)")

	// Output
	output   = flag.String("output", "", "Summary CSV filename; trial rows go to a matching -raw.csv file")
	plotFile = flag.String("plot", "", "Probability plot filename (.png, .svg, .pdf)")
	htmlFile = flag.String("html", "", "Interactive HTML report filename")

	// Persistence and remote mode
	dbFile      = flag.String("db", "", "SQLite database for saving results and for subcommands (subcommands default to lanesim.db)")
	monitorURL  = flag.String("monitor", "", "Base URL of a running lanesim server; the sweep runs there instead of locally")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if args := flag.Args(); len(args) > 0 {
		runSubcommand(args)
		return
	}

	ratioList, err := sweep.ParseRatioList(*ratios)
	if err != nil {
		log.Fatalf("Invalid -ratios: %v", err)
	}

	req := sweep.Request{
		Ratios:           ratioList,
		Trials:           *trials,
		MaxSteps:         *steps,
		NumCars:          *cars,
		HighwayLength:    *length,
		SpawnProbability: *spawn,
		Seed:             *seed,
		Workers:          *workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var res *sweep.Result
	if *monitorURL != "" {
		res, err = runRemote(ctx, *monitorURL, req)
	} else {
		res, err = sweep.Execute(ctx, req)
	}
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	printSummary(res)
	writeOutputs(res)
}

// runSubcommand dispatches the database verbs: migrate, list, and show.
func runSubcommand(args []string) {
	dbPath := *dbFile
	if dbPath == "" {
		dbPath = "lanesim.db"
	}

	switch args[0] {
	case "migrate":
		db.RunMigrateCommand(args[1:], dbPath)

	case "list":
		database, err := db.NewDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
		listRuns(database)

	case "show":
		if len(args) < 2 {
			log.Fatal("Usage: sweep -db <path> show <run_id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatalf("Invalid run ID %q", args[1])
		}
		database, err := db.NewDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
		showRun(database, id)

	default:
		log.Fatalf("Unknown command %q (want migrate, list, or show)", args[0])
	}
}

func listRuns(database *db.DB) {
	runs, err := database.ListSweepRuns(0)
	if err != nil {
		log.Fatalf("Failed to list sweep runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No sweep runs stored.")
		return
	}

	fmt.Printf("%4s  %-19s  %7s  %5s  %10s  %8s  %s\n",
		"id", "completed", "trials", "cars", "seed", "slope", "version")
	for _, run := range runs {
		fmt.Printf("%4d  %-19s  %7d  %5d  %10d  %8.3f  %s\n",
			run.ID, run.CompletedAt.Format("2006-01-02 15:04:05"),
			run.Trials, run.NumCars, run.Seed, run.TrendSlope, run.AppVersion)
	}
}

func showRun(database *db.DB, id int64) {
	run, results, err := database.GetSweepRun(id)
	if err != nil {
		log.Fatalf("Failed to load sweep run %d: %v", id, err)
	}

	fmt.Printf("Sweep run %d (%s)\n", run.ID, run.RunUUID)
	fmt.Printf("Completed: %s\n", run.CompletedAt.Format(time.RFC3339))
	fmt.Printf("Parameters: %d trials x %d steps, %d cars on %.0fm, spawn %.2f, seed %d\n",
		run.Trials, run.MaxSteps, run.NumCars, run.HighwayLength, run.SpawnProbability, run.Seed)
	fmt.Printf("Built by: %s\n", run.AppVersion)
	fmt.Println()
	printRatioTable(results, run.TrendIntercept, run.TrendSlope)
}

func printSummary(res *sweep.Result) {
	alpha, beta := sweep.TrendLine(res.Ratios)
	fmt.Printf("Sweep of %d ratios, %d trials each (%.1fs)\n",
		len(res.Ratios), res.Request.Trials, res.CompletedAt.Sub(res.StartedAt).Seconds())
	fmt.Println()
	printRatioTable(res.Ratios, alpha, beta)
}

func printRatioTable(results []sweep.RatioResult, alpha, beta float64) {
	fmt.Printf("%6s  %6s  %5s  %12s  %8s  %11s\n",
		"ratio", "trials", "jams", "probability", "std_err", "mean_ticks")
	for _, rr := range results {
		fmt.Printf("%6.2f  %6d  %5d  %12.3f  %8.3f  %11.1f\n",
			rr.Ratio, rr.Trials, rr.Jams, rr.JamProbability, rr.StdErr, rr.MeanTicksToJam)
	}
	fmt.Println()
	fmt.Printf("trend: y=%.3fx+%.3f\n", beta, alpha)
}

// writeOutputs writes the optional CSV, plot, report, and database outputs.
// The CSV and HTML writers go through a FileSystem so tests can run them
// in memory; the plot library and the database write to disk themselves.
func writeOutputs(res *sweep.Result) {
	fs := fsutil.OSFileSystem{}

	if *output != "" {
		rawFilename, err := writeCSV(fs, res, *output)
		if err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
		log.Printf("Summary: %s", *output)
		log.Printf("Raw data: %s", rawFilename)
	}

	if *plotFile != "" {
		if err := sweep.SavePlot(res.Ratios, *plotFile); err != nil {
			log.Fatalf("Failed to save plot: %v", err)
		}
		log.Printf("Plot: %s", *plotFile)
	}

	if *htmlFile != "" {
		if err := writeHTMLReport(fs, res, *htmlFile); err != nil {
			log.Fatalf("Failed to render report: %v", err)
		}
		log.Printf("Report: %s", *htmlFile)
	}

	if *dbFile != "" {
		database, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		id, err := database.SaveSweepResult(res)
		if err != nil {
			log.Fatalf("Failed to save sweep: %v", err)
		}
		log.Printf("Saved as sweep run %d in %s", id, *dbFile)
	}
}

// writeCSV writes the summary CSV to path and the per-trial rows to a
// sibling -raw.csv file, creating parent directories as needed. It
// returns the raw filename.
func writeCSV(fs fsutil.FileSystem, res *sweep.Result, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return "", err
	}

	rawFilename := strings.TrimSuffix(path, ".csv") + "-raw.csv"
	fRaw, err := fs.Create(rawFilename)
	if err != nil {
		f.Close()
		return "", err
	}

	werr := sweep.NewCSVWriter(f, fRaw).WriteResult(res)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if cerr := fRaw.Close(); werr == nil {
		werr = cerr
	}
	return rawFilename, werr
}

// writeHTMLReport renders the interactive report to path, creating
// parent directories as needed.
func writeHTMLReport(fs fsutil.FileSystem, res *sweep.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := sweep.RenderHTML(res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
