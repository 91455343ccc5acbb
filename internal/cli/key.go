package cli

import (
	"fmt"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/confskema"
	"github.com/reoring/confskema/source"
)

func (a *app) keyCommand() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "key -s SCHEMA KEY VALUE",
		Short: "Validate a single value for a dotted key",
		Long:  `Validates VALUE against the schema node at KEY. VALUE is read as a JSON literal; anything that does not parse is taken as a bare string.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := source.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			v, err := confskema.ValidateKey(args[0], literal(args[1]), schema)
			if err != nil {
				return err
			}
			b, err := j.Marshal(v)
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

// literal decodes s as a JSON value with exact numbers. Input that is not a
// single JSON value is returned unchanged as a string.
func literal(s string) any {
	m, err := source.Load([]byte(`{"v":`+s+`}`), source.JSON)
	if err != nil || m.Len() != 1 {
		return s
	}
	v, _ := m.Get("v")
	return v
}
