// Command xctestrun is the process entry point (spec.md §6 "External
// interfaces"): it translates argv into a run mode, builds the root
// Suite from whatever test classes registered themselves, executes it,
// and translates the result into an exit code.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gocorexctest/xctest"
	"github.com/gocorexctest/xctest/config"
	"github.com/gocorexctest/xctest/internal/corelog"
	"github.com/gocorexctest/xctest/listing"
	"github.com/gocorexctest/xctest/reporter"
)

const bundleName = "xctestrun"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := corelog.New(cfg.LogLevel, os.Stdout)
	os.Exit(run(os.Args[1:], cfg, logger, os.Stdout))
}

// run is the testable core of main: argv → mode → action → exit code.
func run(args []string, cfg *config.Config, logger corelog.Logger, stdout *os.File) int {
	mode, err := parseArgs(args, logger)
	if err != nil {
		log.Println(err)
		printUsage(stdout)
		return 1
	}

	if mode.help {
		printUsage(stdout)
		return 0
	}

	root := xctest.BuildRoot(xctest.Registered(), mode.filter, bundleName)

	switch mode.listFormat {
	case "human":
		listing.WriteHuman(stdout, root)
		return 0
	case "json":
		listing.WriteJSON(stdout, root)
		return 0
	case "yaml":
		listing.WriteYAML(stdout, root)
		return 0
	}

	engine := xctest.NewExecutionEngine(nil, logger, cfg)
	engine.Hub().Add(reporter.New(stdout))

	record := engine.Run(root)
	if xctest.Succeeded(record) {
		return 0
	}
	return 1
}

type runMode struct {
	filter     xctest.Filter
	listFormat string // "", "human", "json", "yaml"
	help       bool
}

// parseArgs implements spec.md §6 "Argument surface": no args runs
// everything; ClassName or ClassName/methodName narrows the run; a
// listing flag prints the tree and exits; a help flag prints usage.
// Malformed selector tokens are discarded with a logged warning
// rather than rejected outright.
func parseArgs(args []string, logger corelog.Logger) (runMode, error) {
	var mode runMode
	var selectors []string

	for _, a := range args {
		switch a {
		case "-h", "--help":
			mode.help = true
		case "--list", "--list-human":
			mode.listFormat = "human"
		case "--list-json":
			mode.listFormat = "json"
		case "--list-yaml":
			mode.listFormat = "yaml"
		default:
			if len(a) > 0 && a[0] == '-' {
				return runMode{}, unknownFlagError(a)
			}
			selectors = append(selectors, a)
		}
	}

	if len(selectors) == 0 {
		mode.filter = xctest.AllTests
	} else {
		mode.filter = xctest.NewSelectorFilter(selectors, logger)
	}
	return mode, nil
}

func unknownFlagError(flag string) error {
	return &usageError{flag: flag}
}

type usageError struct{ flag string }

func (e *usageError) Error() string { return "unknown flag: " + e.flag }

func printUsage(w *os.File) {
	usage := "usage: xctestrun [ClassName[/methodName] ...] [--list|--list-json|--list-yaml] [-h]\n"
	w.WriteString(usage)
}
