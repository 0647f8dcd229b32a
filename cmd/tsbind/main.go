package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tsbind/internal/prof"
	"tsbind/internal/version"
)

// exitError carries a process exit code for failures whose details were
// already printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// app is the state shared by the commands of one invocation.
type app struct {
	settings settings
	manifest *manifest
	cleanup  func()
	profile  *prof.Session
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tsbind",
		Short:         "Bind TypeScript syntax trees to symbol tables",
		Long:          `tsbind runs the name-resolution binder over parsed TypeScript files and reports declaration conflicts and strict-mode errors`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if err := a.configure(cmd); err != nil {
				return err
			}
			session, err := prof.Start(a.settings.Profile)
			if err != nil {
				return err
			}
			a.profile = session
			cleanup, err := setupTracing(cmd, a.settings)
			if err != nil {
				return err
			}
			a.cleanup = cleanup
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to tsbind.toml (default: search upward from the working directory)")
	flags.Bool("no-config", false, "ignore tsbind.toml")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file (0=all)")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.String("ui", "auto", "progress view (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval for streamed traces (0=off)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newBindCmd(a), newSymbolsCmd(a), newIndexCmd(a), newLookupCmd(), newVersionCmd())
	return root
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.cleanup != nil {
		a.cleanup()
	}
	if perr := a.profile.Stop(); perr != nil {
		fmt.Fprintf(stderr, "profile: %v\n", perr)
	}
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 2
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// useColor resolves an auto|on|off colour setting for w.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(w) && os.Getenv("NO_COLOR") == ""
}
