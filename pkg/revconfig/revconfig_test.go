package revconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(8), cfg.Breaker.FailureThreshold)
	assert.Equal(t, "30s", cfg.Breaker.ResetTimeout)
	assert.Equal(t, 0.5, cfg.Merge.BigramJaccard)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), cfg.Breaker.FailureThreshold)
}

func TestLoad_UserValuesOverrideDefaults(t *testing.T) {
	path := writeConfig(t, `
breaker:
  failure_threshold: 3
  reset_timeout: 10s
retry:
  max_retries: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.Breaker.FailureThreshold)
	assert.Equal(t, "10s", cfg.Breaker.ResetTimeout)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	// Untouched sections keep their defaults.
	assert.Equal(t, "1s", cfg.Retry.BackoffBase)
	assert.Equal(t, 0.6, cfg.Merge.LevenshteinSimilarity)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := writeConfig(t, "breaker: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationRejectsOutOfRangeValues(t *testing.T) {
	path := writeConfig(t, `
merge:
  bigram_jaccard: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestResolve_ParsesDurations(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, resolved.Breaker.ResetTimeout)
	assert.Equal(t, time.Second, resolved.Retry.BackoffBase)
	assert.Equal(t, 8*time.Second, resolved.Retry.BackoffMax)
	assert.Equal(t, 5*time.Second, resolved.MinCheckInterval)
	assert.Equal(t, 2, resolved.MaxRetries)
}

func TestResolve_BadDurationFails(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Breaker.ResetTimeout = "not-a-duration"

	_, err = cfg.Resolve()
	require.Error(t, err)
}
