package app

import (
	"context"
	"testing"

	"github.com/riskibarqy/swos-squad-import/internal/config"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSinks(t *testing.T) {
	cfg := config.Config{
		SinkKinds: []string{config.SinkCSV, config.SinkJSONL, config.SinkMemory},
		OutputDir: t.TempDir(),
	}

	sinks, mem, err := buildSinks(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, sinks, 3)
	assert.NotNil(t, mem)
}

func TestBuildSinks_PostgresNeedsDB(t *testing.T) {
	_, _, err := buildSinks(config.Config{SinkKinds: []string{config.SinkPostgres}}, nil)
	require.Error(t, err)
}

func TestBuildSinks_Empty(t *testing.T) {
	_, _, err := buildSinks(config.Config{}, nil)
	require.Error(t, err)
}

func TestNewImporter_WiresMemorySink(t *testing.T) {
	cfg := config.Config{
		ServiceName:      "swos-squad-import",
		CurrentSeason:    "25/26",
		SeasonYear:       2025,
		MaxClubWorkers:   2,
		MaxPlayerWorkers: 2,
		SinkKinds:        []string{config.SinkMemory},
	}

	importer, err := NewImporter(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = importer.Close() })

	assert.NotNil(t, importer.Service)
	assert.NotNil(t, importer.Source)
	assert.NotNil(t, importer.Memory)
	assert.NoError(t, importer.PushMetrics(context.Background(), "run-1"))
}

func TestNewImporter_BadLookupDir(t *testing.T) {
	cfg := config.Config{
		CurrentSeason: "25/26",
		SinkKinds:     []string{config.SinkMemory},
		LookupDir:     t.TempDir(),
	}

	_, err := NewImporter(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
