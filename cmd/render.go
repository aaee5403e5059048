package cmd

import (
	"fmt"

	"bq2kafka/internal/schema"
	"bq2kafka/internal/sqlgen"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the synthesized statements without submitting them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadPipelineConfig()
		if err != nil {
			return err
		}

		table, err := schema.Load(cfg.SchemaPath)
		if err != nil {
			return err
		}

		stmts := sqlgen.Generate(table, sqlgen.Options{
			CredentialsFile:  cfg.CredentialsPath,
			BootstrapServers: cfg.BootstrapServers,
			ValueFormat:      cfg.ValueFormat,
		})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "-- source DDL\n%s;\n\n", stmts.SourceDDL)
		fmt.Fprintf(out, "-- sink DDL\n%s;\n\n", stmts.SinkDDL)
		fmt.Fprintf(out, "-- transform\n%s;\n", stmts.Insert)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(renderCmd)
}
