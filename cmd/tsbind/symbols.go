package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tsbind/internal/binder"
	"tsbind/internal/diagfmt"
	"tsbind/internal/driver"
	"tsbind/internal/trace"
)

func newSymbolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [flags] <dump>...",
		Short: "Print the symbol tables of bound files",
		Long: `Symbols binds each dump and prints its module exports, file locals and,
unless --containers=false, the locals of every nested container with the
flags, declaration positions and members of each symbol.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runSymbols,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().Bool("containers", true, "include the locals of nested containers")
	return cmd
}

func (a *app) runSymbols(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json|yaml)", format)
	}
	containers, err := cmd.Flags().GetBool("containers")
	if err != nil {
		return fmt.Errorf("failed to get containers flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(a.settings.PathMode)
	if err != nil {
		return err
	}

	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "tsbind symbols", trace.CurrentSpan(ctx))
	report, err := driver.BindFiles(trace.WithSpan(ctx, span), paths, driver.Options{
		Jobs:     a.settings.Jobs,
		Validate: true,
		BaseDir:  a.settings.BaseDir,
	})
	if err != nil {
		span.End(err.Error())
		return err
	}
	if err := report.Err(); err != nil {
		span.End(err.Error())
		dumpTraceRing(cmd)
		return err
	}

	files := make([]*binder.SourceFile, len(report.Files))
	for i := range report.Files {
		files[i] = report.Files[i].File
	}
	opts := diagfmt.SymbolOpts{
		Color:      useColor(a.settings.Color, cmd.OutOrStdout()),
		PathMode:   pathMode,
		Containers: containers,
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.SymbolsJSON(out, files, report.FileSet, opts)
	case "yaml":
		err = diagfmt.SymbolsYAML(out, files, report.FileSet, opts)
	default:
		for i, sf := range files {
			if i > 0 {
				fmt.Fprintln(out)
			}
			diagfmt.SymbolsPretty(out, sf, report.FileSet, opts)
		}
	}
	span.End(fmt.Sprintf("%d files", len(files)))
	return err
}
