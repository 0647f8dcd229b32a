package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tsbind/internal/diag"
	"tsbind/internal/diagfmt"
	"tsbind/internal/driver"
	"tsbind/internal/trace"
	"tsbind/internal/ui"
	"tsbind/internal/version"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
	formatSarif  outputFormat = "sarif"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatPretty, formatShort, formatJSON, formatSarif:
		return f, nil
	case "":
		return formatPretty, nil
	}
	return "", fmt.Errorf("unsupported format %q (expected pretty|short|json|sarif)", s)
}

func newBindCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind [flags] [dump|directory...]",
		Short: "Bind AST dumps and report diagnostics",
		Long: `Bind loads AST dumps (.json, or msgpack .tsast/.msgpack), binds every file
and prints the binder diagnostics. Directories are searched for dumps.
Without arguments the files listed in tsbind.toml [bind].files are used.
The exit status is 1 when any file has an error.`,
		RunE: a.runBind,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().Bool("validate", false, "check table invariants after each bind")
	cmd.Flags().Bool("notes", true, "include diagnostic notes")
	cmd.Flags().Int8("context", 0, "source lines shown above each diagnostic")
	return cmd
}

func (a *app) runBind(cmd *cobra.Command, args []string) error {
	s := a.settings
	format, err := parseOutputFormat(s.Format)
	if err != nil {
		return err
	}
	pathMode, err := diagfmt.ParsePathMode(s.PathMode)
	if err != nil {
		return err
	}
	mode, err := readUIMode(s.UI)
	if err != nil {
		return err
	}
	withNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return fmt.Errorf("failed to get notes flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt8("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}

	paths, err := a.inputPaths(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "tsbind bind", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	opts := driver.Options{
		Jobs:           s.Jobs,
		MaxDiagnostics: s.MaxDiagnostics,
		Validate:       s.Validate,
		BaseDir:        s.BaseDir,
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	report, err := a.bindFiles(ctx, paths, opts, mode, stderr)
	if err != nil {
		span.End(err.Error())
		dumpTraceRing(cmd)
		return err
	}

	idx := report.Timer.Begin("report")
	bag := report.Diagnostics()
	switch format {
	case formatPretty:
		diagfmt.Pretty(stdout, bag, report.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(s.Color, stdout),
			Context:   contextLines,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case formatShort:
		diagfmt.Short(stdout, bag, report.FileSet, withNotes)
	case formatJSON:
		err = diagfmt.JSON(stdout, bag, report.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	case formatSarif:
		err = diagfmt.Sarif(stdout, bag, report.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "tsbind",
			ToolVersion:    version.Version,
			InvocationArgs: append([]string{"bind"}, args...),
			RunID:          report.RunID,
		})
	}
	report.Timer.End(idx, string(format))
	if err != nil {
		span.End(err.Error())
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}

	failed := reportFileErrors(stderr, report)
	if failed > 0 {
		dumpTraceRing(cmd)
	}
	if !s.Quiet && (format == formatPretty || format == formatShort) {
		printSummary(stderr, report, bag)
	}
	if s.Timings {
		fmt.Fprint(stderr, report.Timer.Summary())
	}
	span.End(fmt.Sprintf("%d files, %d diagnostics, %d failed", len(report.Files), bag.Len(), failed))

	if report.HasErrors() {
		return &exitError{code: 1}
	}
	return nil
}

func (a *app) bindFiles(ctx context.Context, paths []string, opts driver.Options, mode uiMode, progressOut io.Writer) (*driver.Report, error) {
	if !a.settings.Quiet && shouldUseTUI(mode, progressOut, len(paths)) {
		return ui.RunBind(ctx, "binding", paths, opts, progressOut)
	}
	return driver.BindFiles(ctx, paths, opts)
}

// inputPaths expands args, or the manifest's files when args is empty, to
// dump paths.
func (a *app) inputPaths(args []string) ([]string, error) {
	inputs := args
	if len(inputs) == 0 {
		inputs = a.settings.Files
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files: pass dumps or set [bind].files in %s", manifestName)
	}
	paths, err := driver.ExpandPaths(inputs)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no AST dumps found in %s", strings.Join(inputs, ", "))
	}
	return paths, nil
}

// reportFileErrors prints load and internal errors and returns their count.
func reportFileErrors(w io.Writer, report *driver.Report) int {
	failed := 0
	for _, res := range report.Files {
		if res.Err == nil {
			continue
		}
		failed++
		fmt.Fprintf(w, "error: %v\n", res.Err)
	}
	return failed
}

func printSummary(w io.Writer, report *driver.Report, bag *diag.Bag) {
	errs, warnings := bag.CountSeverity(diag.SevError), bag.CountSeverity(diag.SevWarning)
	fmt.Fprintf(w, "bound %d %s: %d symbols, %d %s, %d %s\n",
		len(report.Files), plural(len(report.Files), "file", "files"),
		report.SymbolCount(),
		errs, plural(errs, "error", "errors"),
		warnings, plural(warnings, "warning", "warnings"),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
