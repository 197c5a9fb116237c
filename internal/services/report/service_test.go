package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/models"
)

type stubChart struct {
	spec      *models.ChartSpec
	buildErr  error
	renderErr error
	builds    int
}

func (c *stubChart) BuildSpec(ctx context.Context, ticker string, zones models.DecisionZones, currentPrice float64, decision models.Decision) (*models.ChartSpec, error) {
	c.builds++
	if c.buildErr != nil {
		return nil, c.buildErr
	}
	if c.spec != nil {
		return c.spec, nil
	}
	return &models.ChartSpec{Ticker: ticker, Support: zones.Support, Resistance: zones.Resistance}, nil
}

func (c *stubChart) Render(spec *models.ChartSpec) ([]byte, error) {
	if c.renderErr != nil {
		return nil, c.renderErr
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func newSaveFixture(t *testing.T, chart *stubChart) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return NewService(dir, chart, common.NewSilentLogger()), dir
}

func TestSave_AllArtifacts(t *testing.T) {
	s, base := newSaveFixture(t, &stubChart{})

	record := testRecord(models.DecisionBuy)
	record.Reports = map[string]string{"market_report": "verbatim content"}
	result := &models.AnalysisResult{MarketReport: "verbatim content"}

	paths, err := s.Save(context.Background(), record, result)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	dir := filepath.Join(base, "AMD")
	assert.Equal(t, filepath.Join(dir, "AMD_analysis_2026-02-20.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "AMD_summary_2026-02-20.txt"), paths[1])
	assert.Equal(t, filepath.Join(dir, "AMD_chart_2026-02-20.png"), paths[2])

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err, "artifact %s missing", p)
	}
}

func TestSave_RecordRoundTrip(t *testing.T) {
	s, base := newSaveFixture(t, &stubChart{})

	record := testRecord(models.DecisionHold)
	record.Reports = map[string]string{
		"market_report": "market",
		"news_report":   "news",
	}

	_, err := s.Save(context.Background(), record, &models.AnalysisResult{MarketReport: "market", NewsReport: "news"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "AMD", "AMD_analysis_2026-02-20.json"))
	require.NoError(t, err)

	var loaded models.AnalysisRecord
	require.NoError(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, record.Ticker, loaded.Ticker)
	assert.Equal(t, record.TradeDate, loaded.TradeDate)
	assert.Equal(t, record.Decision, loaded.Decision)
	assert.Equal(t, record.Reports, loaded.Reports)
	require.NotNil(t, loaded.Snapshot)
	assert.Equal(t, *record.Snapshot.CurrentPrice, *loaded.Snapshot.CurrentPrice)
}

func TestSave_OverwriteIsIdempotent(t *testing.T) {
	s, base := newSaveFixture(t, &stubChart{})
	record := testRecord(models.DecisionBuy)
	result := &models.AnalysisResult{MarketReport: "first run"}

	_, err := s.Save(context.Background(), record, result)
	require.NoError(t, err)

	result.MarketReport = "second run"
	_, err = s.Save(context.Background(), record, result)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "AMD", "AMD_summary_2026-02-20.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "second run")
	assert.NotContains(t, string(data), "first run")

	entries, err := os.ReadDir(filepath.Join(base, "AMD"))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "overwrite must not accumulate extra files")
}

func TestSave_NoSnapshotSkipsChart(t *testing.T) {
	chart := &stubChart{}
	s, base := newSaveFixture(t, chart)

	record := testRecord(models.DecisionHold)
	record.Snapshot = nil

	paths, err := s.Save(context.Background(), record, &models.AnalysisResult{})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Equal(t, 0, chart.builds, "chart must not be built without a price")

	_, err = os.Stat(filepath.Join(base, "AMD", "AMD_chart_2026-02-20.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_ChartBuildFailureIsNotFatal(t *testing.T) {
	chart := &stubChart{buildErr: errors.New("no bars")}
	s, _ := newSaveFixture(t, chart)

	paths, err := s.Save(context.Background(), testRecord(models.DecisionBuy), &models.AnalysisResult{})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestSave_ChartRenderFailureIsNotFatal(t *testing.T) {
	chart := &stubChart{renderErr: errors.New("raster error")}
	s, _ := newSaveFixture(t, chart)

	paths, err := s.Save(context.Background(), testRecord(models.DecisionBuy), &models.AnalysisResult{})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestSave_SlashInTickerSanitized(t *testing.T) {
	s, base := newSaveFixture(t, &stubChart{})

	record := testRecord(models.DecisionHold)
	record.Ticker = "BRK/B"
	record.Snapshot = nil

	_, err := s.Save(context.Background(), record, &models.AnalysisResult{})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base, "BRK_B"))
	assert.NoError(t, err, "sanitized per-ticker directory should exist")
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	require.NoError(t, writeFileAtomic(target, []byte("hello")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
