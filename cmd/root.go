package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string

	logger = slog.Default()
)

var RootCmd = &cobra.Command{
	Use:   "bq2kafka",
	Short: "Generate and submit Flink SQL for a BigQuery to Kafka pipeline",
	Long: `bq2kafka turns a JSON schema definition into three Flink SQL
statements (BigQuery source DDL, Kafka sink DDL, INSERT transform) and
submits them to a Flink SQL Gateway. Data movement, scheduling and
retries are entirely the engine's job; this tool ends at submission.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(logLevel)
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig reads the properties file and wires environment variable
// overrides: any key can be overridden by its upper-cased name with
// dots replaced by underscores (kafka.bootstrap.servers ->
// KAFKA_BOOTSTRAP_SERVERS). Environment wins over the file.
func initConfig() {
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case os.Getenv("CONFIG_PATH") != "":
		viper.SetConfigFile(os.Getenv("CONFIG_PATH"))
	default:
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl}))
}
