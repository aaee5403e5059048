package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs first: the global viper must still be empty of pipeline keys for
// the missing-required check to mean anything.
func TestLoadPipelineConfigMissingRequired(t *testing.T) {
	_, err := LoadPipelineConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema.definition.path")
}

func TestLoadPipelineConfigFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `schema:
  definition:
    path: /conf/schema.json
bigquery:
  credentials:
    path: /conf/creds.json
kafka:
  bootstrap:
    servers: file-broker:9092
flink:
  execution:
    mode: streaming
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "env-broker:9092")

	initConfig()

	cfg, err := LoadPipelineConfig()
	require.NoError(t, err)

	// File values.
	assert.Equal(t, "/conf/schema.json", cfg.SchemaPath)
	assert.Equal(t, "/conf/creds.json", cfg.CredentialsPath)
	assert.Equal(t, "streaming", cfg.ExecutionMode)

	// Environment beats the file.
	assert.Equal(t, "env-broker:9092", cfg.BootstrapServers)

	// Defaults fill what neither file nor environment set.
	assert.Equal(t, "json", cfg.ValueFormat)
	assert.Equal(t, "http://localhost:8083", cfg.GatewayURL)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
}
