package cli

import (
	"fmt"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func (a *app) jsonSchemaCommand() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "jsonschema -s SCHEMA",
		Short: "Export the schema as JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := a.loadSchema(schemaPath)
			if err != nil {
				return err
			}
			js, err := schema.JSONSchema()
			if err != nil {
				return err
			}
			b, err := j.MarshalIndent(js, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n", b)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (json, yaml or toml)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
