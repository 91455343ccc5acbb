package cli

import (
	"context"
	"fmt"
	"path/filepath"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/confskema"
	"github.com/reoring/confskema/internal/watch"
	"github.com/reoring/confskema/source"
	"github.com/reoring/confskema/tree"
)

type checkOptions struct {
	schema string
	print  bool
	watch  bool
}

type result struct {
	path string
	out  *tree.Map
	err  error
}

func (a *app) checkCommand() *cobra.Command {
	var o checkOptions
	cmd := &cobra.Command{
		Use:   "check -s SCHEMA CONFIG...",
		Short: "Validate configuration files",
		Long:  `Validates every CONFIG file against SCHEMA. Files are checked concurrently; the first error of each file is reported.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.Context(), o, args)
		},
	}
	cmd.Flags().StringVarP(&o.schema, "schema", "s", "", "schema file (json, yaml or toml)")
	cmd.Flags().BoolVar(&o.print, "print", false, "print the validated configuration with defaults applied")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "re-validate when a file changes")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) runCheck(ctx context.Context, o checkOptions, files []string) error {
	schema, err := a.loadSchema(o.schema)
	if err != nil {
		return err
	}
	failed := a.report(o, a.checkAll(ctx, schema, files))
	if !o.watch {
		if failed {
			return ErrCheckFailed
		}
		return nil
	}

	w, err := watch.New(append([]string{o.schema}, files...), a.logger)
	if err != nil {
		return err
	}
	schemaAbs, _ := filepath.Abs(o.schema)
	return w.Run(ctx, func(path string) {
		if path == schemaAbs {
			s, err := a.loadSchema(o.schema)
			if err != nil {
				a.logger.Error().Err(err).Msg("schema reload failed, keeping previous schema")
				return
			}
			schema = s
			a.logger.Info().Str("schema", o.schema).Msg("schema reloaded")
			a.report(o, a.checkAll(ctx, schema, files))
			return
		}
		a.report(o, a.checkAll(ctx, schema, []string{path}))
	})
}

func (a *app) loadSchema(path string) (*confskema.Schema, error) {
	raw, err := source.LoadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := confskema.ParseSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := confskema.Compile(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug().Str("schema", path).Int("entries", len(s.Root().Entries)).Msg("schema compiled")
	return s, nil
}

// checkAll validates files concurrently against one compiled schema. Results
// keep the order of files.
func (a *app) checkAll(ctx context.Context, schema *confskema.Schema, files []string) []result {
	results := make([]result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.settings.Jobs)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = result{path: f, err: err}
				return nil
			}
			results[i] = checkFile(schema, f)
			a.logger.Debug().Str("file", f).Bool("ok", results[i].err == nil).Msg("checked")
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkFile(schema *confskema.Schema, path string) result {
	cfg, err := source.LoadFile(path)
	if err != nil {
		return result{path: path, err: err}
	}
	out, err := schema.Check(cfg)
	if err != nil {
		return result{path: path, err: err}
	}
	return result{path: path, out: schema.Arrange(out)}
}

// report writes one line per file, or the validated document with --print.
// It reports whether any file failed.
func (a *app) report(o checkOptions, results []result) bool {
	failed := false
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(a.out, "%s: FAIL: %v\n", r.path, r.err)
			continue
		}
		if !o.print {
			fmt.Fprintf(a.out, "%s: ok\n", r.path)
			continue
		}
		b, err := j.MarshalIndent(r.out, "", "  ")
		if err != nil {
			failed = true
			fmt.Fprintf(a.out, "%s: FAIL: %v\n", r.path, err)
			continue
		}
		fmt.Fprintf(a.out, "%s\n", b)
	}
	return failed
}
