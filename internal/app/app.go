// Package app wires configuration, clients and services into a runnable
// application core
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/verdict/internal/clients/engine"
	"github.com/bobmcallan/verdict/internal/clients/yahoo"
	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/services/analysis"
	"github.com/bobmcallan/verdict/internal/services/batch"
	"github.com/bobmcallan/verdict/internal/services/chart"
	"github.com/bobmcallan/verdict/internal/services/report"
)

// App holds all initialized clients and services.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	MarketClient    interfaces.MarketDataClient
	EngineClient    interfaces.EngineClient
	ChartService    interfaces.ChartService
	ReportService   interfaces.ReportService
	AnalysisService interfaces.AnalysisService
	BatchService    *batch.Service
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// Override mutates the loaded config before services are built. Used by the
// CLI to apply flag values on top of file and environment configuration.
type Override func(*common.Config)

// NewApp initializes configuration, logging, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(ctx context.Context, configPath string, overrides ...Override) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: provided path, VERDICT_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("VERDICT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "verdict.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/verdict.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	for _, override := range overrides {
		override(config)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	marketClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	engineKey, err := common.ResolveAPIKey("engine_api_key", config.Clients.Engine.APIKey)
	if err != nil {
		return nil, fmt.Errorf("analysis engine unavailable: %w", err)
	}

	engineClient, err := engine.NewClient(ctx, engineKey,
		engine.WithModel(config.Clients.Engine.Model),
		engine.WithDebateRounds(config.Clients.Engine.DebateRounds),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine client: %w", err)
	}

	chartService := chart.NewService(marketClient, logger)
	reportService := report.NewService(common.ResolveOutputPath(config.Output.Path), chartService, logger)
	analysisService := analysis.NewService(marketClient, engineClient, reportService, logger)
	batchService := batch.NewService(analysisService, logger)

	return &App{
		Config:          config,
		Logger:          logger,
		MarketClient:    marketClient,
		EngineClient:    engineClient,
		ChartService:    chartService,
		ReportService:   reportService,
		AnalysisService: analysisService,
		BatchService:    batchService,
	}, nil
}
