package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tsbind/internal/driver"
	"tsbind/internal/index"
	"tsbind/internal/trace"
)

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index --db PATH [dump|directory...]",
		Short: "Store the symbol tables of bound files in a SQLite database",
		Long: `Index binds each dump and writes every symbol, the table that holds it and
its declaration positions to the database. Re-indexing a file replaces its
earlier rows. Query the result with "tsbind lookup".`,
		RunE: a.runIndex,
	}
	cmd.Flags().String("db", "", "database file to create or update")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup --db PATH <name>",
		Short: "List the declarations of a symbol in an index",
		Args:  cobra.ExactArgs(1),
		RunE:  runLookup,
	}
	cmd.Flags().String("db", "", "database written by tsbind index")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func (a *app) runIndex(cmd *cobra.Command, args []string) error {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}
	paths, err := a.inputPaths(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "tsbind index", trace.CurrentSpan(ctx))
	report, err := driver.BindFiles(trace.WithSpan(ctx, span), paths, driver.Options{
		Jobs:    a.settings.Jobs,
		BaseDir: a.settings.BaseDir,
	})
	if err != nil {
		span.End(err.Error())
		return err
	}

	ix, err := index.Open(ctx, dbPath)
	if err != nil {
		span.End(err.Error())
		return err
	}
	defer ix.Close()

	idx := report.Timer.Begin("index")
	indexed := 0
	for _, res := range report.Files {
		if res.Err != nil {
			continue
		}
		if err := ix.AddFile(ctx, res.File, report.FileSet); err != nil {
			span.End(err.Error())
			return err
		}
		indexed++
	}
	report.Timer.End(idx, fmt.Sprintf("%d files", indexed))

	stderr := cmd.ErrOrStderr()
	failed := reportFileErrors(stderr, report)
	if !a.settings.Quiet {
		files, syms, err := ix.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "indexed %d %s into %s (%d files, %d symbols total)\n",
			indexed, plural(indexed, "file", "files"), dbPath, files, syms)
	}
	if a.settings.Timings {
		fmt.Fprint(stderr, report.Timer.Summary())
	}
	span.End(fmt.Sprintf("%d indexed, %d failed", indexed, failed))
	if failed > 0 {
		dumpTraceRing(cmd)
		return &exitError{code: 1}
	}
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}
	ix, err := index.Open(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	decls, err := ix.Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no declarations of %s\n", args[0])
		return &exitError{code: 1}
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, d := range decls {
		where := d.Table
		if d.Owner != "" {
			where += " of " + d.Owner
		}
		if where == "" {
			where = "-"
		}
		fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\t%s\n", d.File, d.Line, d.Col, d.Kind, d.Flags, where)
	}
	return w.Flush()
}
