package cmd

import (
	"fmt"
	"log/slog"

	"bq2kafka/internal/executor"
	"bq2kafka/internal/schema"
	"bq2kafka/internal/sqlgen"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Synthesize the pipeline statements and submit them to the Flink SQL Gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadPipelineConfig()
		if err != nil {
			return err
		}

		logger.Info("loading schema definition", slog.String("path", cfg.SchemaPath))
		table, err := schema.Load(cfg.SchemaPath)
		if err != nil {
			return err
		}
		logger.Info("schema loaded",
			slog.String("source", table.SourceName),
			slog.String("sink", table.SinkName),
			slog.Int("columns", len(table.Columns)),
		)

		stmts := sqlgen.Generate(table, sqlgen.Options{
			CredentialsFile:  cfg.CredentialsPath,
			BootstrapServers: cfg.BootstrapServers,
			ValueFormat:      cfg.ValueFormat,
		})
		logger.Debug("source DDL synthesized", slog.String("sql", stmts.SourceDDL))
		logger.Debug("sink DDL synthesized", slog.String("sql", stmts.SinkDDL))
		logger.Debug("transform synthesized", slog.String("sql", stmts.Insert))

		ctx := cmd.Context()
		gw := executor.NewGateway(executor.GatewayConfig{
			URL:          cfg.GatewayURL,
			Mode:         cfg.ExecutionMode,
			PollInterval: cfg.PollInterval,
			Timeout:      cfg.Timeout,
		}, logger)
		defer func() {
			if err := gw.Close(ctx); err != nil {
				logger.Warn("failed to close gateway session", slog.Any("error", err))
			}
		}()

		logger.Info("submitting pipeline",
			slog.String("gateway", cfg.GatewayURL),
			slog.String("mode", gw.RuntimeMode()),
		)
		if err := executor.Submit(ctx, gw, stmts); err != nil {
			return fmt.Errorf("pipeline submission aborted: %w", err)
		}

		logger.Info("pipeline submitted",
			slog.String("table", table.Source.Table),
			slog.String("topic", table.Sink.Topic),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
}
