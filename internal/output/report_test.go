package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = prev })
}

func TestGenerateReport(t *testing.T) {
	fixClock(t)
	dir := t.TempDir()

	files, err := GenerateReport(buildTestReport(), "csv", dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "glidepath_csv_20250102_030405.csv"), files[0])

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Scenario,Policy"))
}

func TestGenerateReport_All(t *testing.T) {
	fixClock(t)
	dir := filepath.Join(t.TempDir(), "nested")

	files, err := GenerateReport(buildTestReport(), "all", dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, ".txt", filepath.Ext(files[0]))
	assert.Equal(t, ".csv", filepath.Ext(files[1]))
	assert.Equal(t, ".json", filepath.Ext(files[2]))
	for _, f := range files {
		assert.FileExists(t, f)
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := GenerateReport(buildTestReport(), "definitely-not-a-format", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	msg := err.Error()
	assert.Contains(t, msg, "unsupported report format")
	assert.Contains(t, msg, "Try one of:")
	assert.Contains(t, msg, "monthly")
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	failing := FormatterFunc{ID: "broken", F: func(*domain.SimulationReport) ([]byte, error) { return nil, errors.New("boom") }}
	_, err := WriteFormatted(failing, buildTestReport(), t.TempDir(), "txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format broken")
}
