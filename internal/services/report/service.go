// Package report persists analysis artifacts: the structured JSON record,
// the narrative text report, and the decision chart
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
	"github.com/bobmcallan/verdict/internal/services/analysis"
)

// Service implements ReportService
type Service struct {
	basePath string
	chart    interfaces.ChartService
	logger   *common.Logger
}

// NewService creates a new report service writing under basePath
func NewService(basePath string, chartService interfaces.ChartService, logger *common.Logger) *Service {
	return &Service{
		basePath: basePath,
		chart:    chartService,
		logger:   logger,
	}
}

// Save writes all artifacts for one analysis run into a per-ticker
// directory. The structured record and narrative report are mandatory:
// a write failure propagates. The chart is best-effort and skipped when
// its content cannot be built (no positive price, no historical data).
// Re-running for the same ticker and trade date overwrites in place.
func (s *Service) Save(ctx context.Context, record *models.AnalysisRecord, result *models.AnalysisResult) ([]string, error) {
	name := sanitizeName(record.Ticker)
	dir := filepath.Join(s.basePath, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	var paths []string

	// Structured record, sections verbatim
	recordPath := filepath.Join(dir, fmt.Sprintf("%s_analysis_%s.json", name, record.TradeDate))
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis record: %w", err)
	}
	if err := writeFileAtomic(recordPath, data); err != nil {
		return nil, fmt.Errorf("failed to save analysis record: %w", err)
	}
	paths = append(paths, recordPath)

	// Narrative report, sections truncated
	summaryPath := filepath.Join(dir, fmt.Sprintf("%s_summary_%s.txt", name, record.TradeDate))
	if err := writeFileAtomic(summaryPath, []byte(formatNarrative(record, result))); err != nil {
		return paths, fmt.Errorf("failed to save summary report: %w", err)
	}
	paths = append(paths, summaryPath)

	// Decision chart, best-effort
	chartPath, err := s.saveChart(ctx, dir, name, record)
	if err != nil {
		return paths, err
	}
	if chartPath != "" {
		paths = append(paths, chartPath)
	}

	s.logger.Info().
		Str("ticker", record.Ticker).
		Str("dir", dir).
		Int("artifacts", len(paths)).
		Msg("Report artifacts written")

	return paths, nil
}

// saveChart builds, renders and writes the decision chart. Build and render
// failures skip the artifact; a filesystem write failure still propagates.
func (s *Service) saveChart(ctx context.Context, dir, name string, record *models.AnalysisRecord) (string, error) {
	if !record.Snapshot.HasPrice() {
		s.logger.Debug().Str("ticker", record.Ticker).Msg("No positive price, skipping chart")
		return "", nil
	}

	price := record.Snapshot.Price()
	zones := analysis.ComputeZones(price)

	spec, err := s.chart.BuildSpec(ctx, record.Ticker, zones, price, record.Decision)
	if err != nil {
		s.logger.Warn().Str("ticker", record.Ticker).Err(err).Msg("Chart content unavailable, skipping chart")
		return "", nil
	}

	png, err := s.chart.Render(spec)
	if err != nil {
		s.logger.Warn().Str("ticker", record.Ticker).Err(err).Msg("Chart render failed, skipping chart")
		return "", nil
	}

	chartPath := filepath.Join(dir, fmt.Sprintf("%s_chart_%s.png", name, record.TradeDate))
	if err := writeFileAtomic(chartPath, png); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	return chartPath, nil
}
