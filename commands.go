package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/clearsky-data/radiance.report/internal/db"
	"github.com/clearsky-data/radiance.report/internal/grid"
	"github.com/clearsky-data/radiance.report/internal/report"
)

// runMigrateCommand handles the 'migrate' subcommand dispatching.
func runMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		log.Fatal("Usage: radiance-report migrate <up|down|status|force>")
	}

	// Open without schema initialization; migrations manage the schema.
	database, err := db.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	switch args[0] {
	case "up":
		log.Printf("Running migrations...")
		if err := database.MigrateUp(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("All migrations applied successfully")

	case "down":
		log.Printf("Rolling back one migration...")
		if err := database.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Migration rolled back successfully")

	case "status":
		version, dirty, err := database.MigrateVersion()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Printf("Current version: %d\n", version)
		fmt.Printf("Dirty: %v\n", dirty)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: radiance-report migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version number: %s", args[1])
		}
		if err := database.MigrateForce(version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		log.Printf("Forced migration version to %d", version)

	default:
		log.Fatalf("Unknown migrate action: %s", args[0])
	}
}

// runPopulateCommand fills the store with optical depths for the bundled
// gases, reading absorption coefficients from precomputed CSV fixtures.
func runPopulateCommand(args []string, dbPath string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	coefDir := fs.String("coef-dir", "coefficients", "Directory of per-gas absorption coefficient CSV files")
	altMin := fs.Float64("alt-min", 500, "First block midpoint altitude in meters")
	altMax := fs.Float64("alt-max", 30500, "Altitude ceiling in meters (exclusive)")
	altStep := fs.Float64("alt-step", 1000, "Block spacing in meters")
	verbose := fs.Bool("v", false, "Log per-altitude progress")
	fs.Parse(args)

	if *altStep <= 0 || *altMax <= *altMin {
		log.Fatalf("Invalid altitude grid: min=%g max=%g step=%g", *altMin, *altMax, *altStep)
	}
	var altitudes []float64
	for alt := *altMin; alt < *altMax; alt += *altStep {
		altitudes = append(altitudes, alt)
	}

	database, err := db.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.ApplyBulkLoadPragmas(ctx); err != nil {
		log.Fatalf("Failed to apply bulk-load pragmas: %v", err)
	}

	provider := &csvCoefficientProvider{dir: *coefDir}
	if err := database.Populate(ctx, provider, db.DefaultGases, altitudes, *verbose); err != nil {
		log.Fatalf("Population failed: %v", err)
	}
	log.Printf("Store populated: %d gases x %d altitudes", len(db.DefaultGases), len(altitudes))
}

// runFluxCommand builds the grid, propagates flux and writes the requested
// output artifacts.
func runFluxCommand(args []string, dbPath string) {
	fs := flag.NewFlagSet("flux", flag.ExitOnError)
	altMin := fs.Float64("alt-min", 0, "Lower altitude bound in meters (open interval)")
	altMax := fs.Float64("alt-max", 10000, "Upper altitude bound in meters (open interval)")
	waveMin := fs.Int("wave-min", 200, "Lower wavenumber bound in cm^-1 (inclusive)")
	waveMax := fs.Int("wave-max", 4000, "Upper wavenumber bound in cm^-1 (inclusive)")
	gases := fs.String("gases", "H2O,CO2,CH4,N2O", "Comma-separated gas names")
	workers := fs.Int("workers", 0, "Parallel per-gas resampling limit (0 = one worker per gas)")
	cumulative := fs.Bool("cumulative-surface", false, "Use the cumulative-product surface attenuation model")
	csvOut := fs.String("csv", "flux.csv", "Flux table output path (empty to skip)")
	pngOut := fs.String("png", "", "Spectrum plot output path (empty to skip)")
	htmlOut := fs.String("html", "", "Interactive chart output path (empty to skip)")
	verbose := fs.Bool("v", false, "Log progress")
	fs.Parse(args)

	database, err := db.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	cfg := grid.Config{
		AltMin:    *altMin,
		AltMax:    *altMax,
		WaveNoMin: *waveMin,
		WaveNoMax: *waveMax,
		Gases:     splitGases(*gases),
		Workers:   *workers,
		Verbose:   *verbose,
	}

	ag, err := grid.Build(context.Background(), database, cfg)
	if err != nil {
		log.Fatalf("Grid construction failed: %v", err)
	}
	if *verbose {
		log.Printf("Grid built: %d layers x %d wavenumber bins", len(ag.Altitudes), ag.Axis.Len())
	}

	flux, err := ag.FluxUp(grid.FluxOptions{CumulativeSurfaceTransmission: *cumulative})
	if err != nil {
		log.Fatalf("Flux propagation failed: %v", err)
	}

	if *csvOut != "" {
		if err := writeFileWith(*csvOut, flux, report.WriteCSV); err != nil {
			log.Fatalf("Failed to write flux table: %v", err)
		}
		log.Printf("Wrote flux table to %s", *csvOut)
	}
	if *pngOut != "" {
		if err := report.SavePNG(flux, *pngOut); err != nil {
			log.Fatalf("Failed to write spectrum plot: %v", err)
		}
		log.Printf("Wrote spectrum plot to %s", *pngOut)
	}
	if *htmlOut != "" {
		if err := writeFileWith(*htmlOut, flux, report.WriteHTML); err != nil {
			log.Fatalf("Failed to write flux chart: %v", err)
		}
		log.Printf("Wrote flux chart to %s", *htmlOut)
	}
}

func splitGases(list string) []string {
	var gases []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			gases = append(gases, name)
		}
	}
	return gases
}

func writeFileWith(path string, flux *grid.FluxField, write func(w io.Writer, flux *grid.FluxField) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, flux); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
