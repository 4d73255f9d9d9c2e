package autoaim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestDefaultParamsValid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}

func TestLoadParamsOverlaysDefaults(t *testing.T) {

	file := writeFile(t, "params.yaml", `
detector:
  box_threshold: 0.7
tracker:
  lost_time_thres: 500ms
  balance_numbers: ["3", "4"]
solver:
  k: 0.1
node:
  max_armor_distance: 8
`)

	p, err := LoadParams(file)
	require.NoError(t, err)

	def := DefaultParams()

	assert.InDelta(t, 0.7, p.Detector.BoxThreshold, 1e-6)
	assert.Equal(t, def.Detector.NMSThreshold, p.Detector.NMSThreshold)
	assert.Equal(t, 500*time.Millisecond, p.Tracker.LostTimeThres)
	assert.Equal(t, []string{"3", "4"}, p.Tracker.BalanceNumbers)
	assert.Equal(t, def.Tracker.MaxMatchDistance, p.Tracker.MaxMatchDistance)
	assert.Equal(t, 0.1, p.Solver.K)
	assert.Equal(t, def.Solver.Gravity, p.Solver.Gravity)
	assert.Equal(t, 8.0, p.Node.MaxArmorDistance)
	assert.Equal(t, def.Node.MaxArmorHeight, p.Node.MaxArmorHeight)
}

func TestLoadParamsErrors(t *testing.T) {

	_, err := LoadParams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadParams(writeFile(t, "bad.yaml", "detector: [1, 2"))
	assert.Error(t, err)

	_, err = LoadParams(writeFile(t, "invalid.yaml", "node:\n  max_armor_distance: -1\n"))
	assert.Error(t, err)
}

func TestLoadLabels(t *testing.T) {

	labels, err := LoadLabels(writeFile(t, "labels.txt", "outpost\n1\n\n 2 \nguard\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"outpost", "1", "2", "guard"}, labels)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
