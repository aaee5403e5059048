package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// PipelineConfig is the snapshot of all configuration the pipeline
// needs, resolved once per invocation with precedence
// environment > config file > default.
type PipelineConfig struct {
	SchemaPath       string
	CredentialsPath  string
	BootstrapServers string
	ValueFormat      string
	ExecutionMode    string
	GatewayURL       string
	PollInterval     time.Duration
	Timeout          time.Duration
}

func init() {
	viper.SetDefault("kafka.value.format", "json")
	viper.SetDefault("flink.execution.mode", "batch")
	viper.SetDefault("flink.gateway.url", "http://localhost:8083")
	viper.SetDefault("flink.gateway.poll_interval", 500*time.Millisecond)
	viper.SetDefault("flink.gateway.timeout", 5*time.Minute)
}

// LoadPipelineConfig resolves the pipeline configuration out of viper.
// Missing required keys are reported by name so the operator knows
// which property (or environment variable) to set.
func LoadPipelineConfig() (*PipelineConfig, error) {
	cfg := &PipelineConfig{
		SchemaPath:       viper.GetString("schema.definition.path"),
		CredentialsPath:  viper.GetString("bigquery.credentials.path"),
		BootstrapServers: viper.GetString("kafka.bootstrap.servers"),
		ValueFormat:      viper.GetString("kafka.value.format"),
		ExecutionMode:    viper.GetString("flink.execution.mode"),
		GatewayURL:       viper.GetString("flink.gateway.url"),
		PollInterval:     viper.GetDuration("flink.gateway.poll_interval"),
		Timeout:          viper.GetDuration("flink.gateway.timeout"),
	}

	required := []struct {
		key   string
		value string
	}{
		{"schema.definition.path", cfg.SchemaPath},
		{"bigquery.credentials.path", cfg.CredentialsPath},
		{"kafka.bootstrap.servers", cfg.BootstrapServers},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("required configuration %q is not set", r.key)
		}
	}

	return cfg, nil
}
