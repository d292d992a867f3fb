package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pharmscan/internal/app"
	"github.com/ternarybob/pharmscan/internal/catalog"
	"github.com/ternarybob/pharmscan/internal/common"
	"github.com/ternarybob/pharmscan/internal/prompt"
)

var (
	// Command-line flags
	configFile      = flag.String("config", "", "Configuration file path (TOML or YAML)")
	configFileC     = flag.String("c", "", "Configuration file path (shorthand)")
	postcodeFlag    = flag.String("postcode", "", "UK postcode to search around (skips the prompt)")
	medicationFlag  = flag.String("medication", "", "Medication product id (skips the prompt)")
	radiusFlag      = flag.Int("radius", 0, "Search radius in miles (overrides config)")
	listMedications = flag.Bool("list-medications", false, "Print the medication catalog and exit")
	showVersion     = flag.Bool("version", false, "Print version information")
	showVersionV    = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Pharmscan version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if *listMedications {
		for _, m := range catalog.Medications {
			fmt.Printf("%s  %s\n", m.ProductID, m.Name)
		}
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	configPath := *configFile
	if configPath == "" {
		configPath = *configFileC
	}
	if configPath == "" {
		// Auto-discover config file if not specified
		for _, candidate := range []string{"pharmscan.toml", "pharmscan.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
	}

	var err error
	config, err = common.LoadFromFile(configPath)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Str("path", configPath).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	if *radiusFlag > 0 {
		config.Search.RadiusMiles = *radiusFlag
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Str("config_file", configPath).
		Str("data_dir", config.Search.DataDir).
		Int("radius_miles", config.Search.RadiusMiles).
		Int("batch_size", config.API.BatchSize).
		Dur("request_interval", config.API.RequestInterval).
		Msg("Resolved configuration")

	postcode, medication, err := resolveInputs()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to collect sweep inputs")
		os.Exit(1)
	}

	logger.Info().
		Str("medication", medication.Name).
		Msg("Checking stock availability")

	// A second interrupt kills the process outright; the first cancels
	// the context so in-flight waits unwind.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn().Msg("Interrupt received, cancelling sweep")
		cancel()
	}()

	application := app.New(config, logger)
	result, err := application.Run(ctx, postcode, medication.ProductID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Stock sweep failed")
		os.Exit(1)
	}

	logger.Info().
		Int("stores", result.Stores).
		Bool("from_cache", result.FromCache).
		Int("in_stock", len(result.InStock)).
		Int("failed_batches", result.FailedBatches).
		Str("report", result.ReportPath).
		Msg("Stock check complete")
}

// resolveInputs returns the postcode and medication for this sweep,
// prompting interactively for whichever was not supplied as a flag.
func resolveInputs() (string, catalog.Medication, error) {
	postcode := *postcodeFlag
	if postcode == "" {
		var err error
		postcode, err = prompt.Postcode()
		if err != nil {
			return "", catalog.Medication{}, err
		}
	}

	if *medicationFlag != "" {
		medication, err := catalog.ByProductID(*medicationFlag)
		if err != nil {
			return "", catalog.Medication{}, err
		}
		return postcode, medication, nil
	}

	medication, err := prompt.Medication()
	if err != nil {
		return "", catalog.Medication{}, err
	}
	return postcode, medication, nil
}
