// Command jank-replay feeds recorded scroll frame traces through the scroll
// jank tracker and reports the V1 and V4 verdicts and histograms.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/jank.report/internal/db"
	"github.com/banshee-data/jank.report/internal/version"
)

// Config holds the command-line options for a replay.
type Config struct {
	TracePath     string
	ConfigPath    string
	DBPath        string
	HTMLPath      string
	PlotDir       string
	JSONPath      string
	ProgressEvery int
	Verbose       bool
}

var (
	cfg         Config
	showVersion bool
)

func init() {
	flag.StringVar(&cfg.TracePath, "trace", "", "Frame trace to replay (JSON lines)")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Tuning config JSON (default: built-in defaults)")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite database to store the run in (optional)")
	flag.StringVar(&cfg.HTMLPath, "html", "", "Write an HTML report to this file")
	flag.StringVar(&cfg.PlotDir, "plots", "", "Write PNG plots into this directory")
	flag.StringVar(&cfg.JSONPath, "json", "", "Write a JSON summary to this file")
	flag.IntVar(&cfg.ProgressEvery, "progress", 0, "Log progress every N records (0 disables)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log every histogram sample and per-frame diagnostics")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose output (alias for -verbose)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("jank-replay"))
		return
	}

	switch command := flag.Arg(0); command {
	case "":
		if cfg.TracePath == "" {
			printUsage()
			os.Exit(1)
		}
		if err := runReplay(cfg, os.Stdout); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
	case "migrate":
		fs := flag.NewFlagSet("migrate", flag.ExitOnError)
		dbPath := fs.String("db", defaultDBPath(cfg.DBPath), "SQLite database path")
		fs.Parse(flag.Args()[1:])
		db.RunMigrateCommand(fs.Args(), *dbPath)
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ExitOnError)
		dbPath := fs.String("db", defaultDBPath(cfg.DBPath), "SQLite database path")
		listen := fs.String("listen", ":8080", "Listen address")
		fs.Parse(flag.Args()[1:])
		if err := runServe(*dbPath, *listen); err != nil {
			log.Fatalf("Serve failed: %v", err)
		}
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// DefaultDBPath is used by the migrate and serve commands when -db is not
// given.
const DefaultDBPath = "jank.db"

func defaultDBPath(p string) string {
	if p == "" {
		return DefaultDBPath
	}
	return p
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: jank-replay [options] -trace frames.jsonl\n")
	fmt.Fprintf(os.Stderr, "       jank-replay migrate [-db path] <command>\n")
	fmt.Fprintf(os.Stderr, "       jank-replay serve [-db path] [-listen addr]\n\n")
	fmt.Fprintf(os.Stderr, "Replays a recorded scroll frame trace through the scroll jank tracker and\n")
	fmt.Fprintf(os.Stderr, "reports which frames each detector judged janky.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  jank-replay -trace frames.jsonl\n")
	fmt.Fprintf(os.Stderr, "  jank-replay -trace frames.jsonl -config config/tuning.example.json -html report.html\n")
	fmt.Fprintf(os.Stderr, "  jank-replay -trace frames.jsonl -db jank.db -plots ./plots\n")
	fmt.Fprintf(os.Stderr, "  jank-replay serve -db jank.db\n")
}
