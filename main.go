// Command radiance-report models thermal radiative transfer through Earth's
// atmosphere from precomputed greenhouse-gas optical-depth spectra.
//
// The spectral store is a local SQLite database populated once (populate),
// after which upward flux tables can be computed repeatedly (flux) without
// touching the expensive line-by-line computation again.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clearsky-data/radiance.report/internal/version"
)

const defaultDBFile = "optical_depth.db"

var (
	dbPath      = flag.String("db", defaultDBFile, "Path to the spectral store SQLite database")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: radiance-report [flags] <command> [command flags]

Commands:
  migrate   Manage the spectral store schema (up, down, status, force)
  populate  Fill the store with per-gas optical depth spectra
  flux      Build the atmosphere grid and compute upward spectral flux
  help      Show this help

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "migrate":
		runMigrateCommand(args[1:], *dbPath)
	case "populate":
		runPopulateCommand(args[1:], *dbPath)
	case "flux":
		runFluxCommand(args[1:], *dbPath)
	case "help":
		usage()
	default:
		log.Printf("Unknown command: %s", args[0])
		usage()
		os.Exit(2)
	}
}
