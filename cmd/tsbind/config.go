package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tsbind/internal/prof"
)

const manifestName = "tsbind.toml"

type manifest struct {
	Path   string
	Root   string
	Config manifestConfig
	meta   toml.MetaData
}

type manifestConfig struct {
	Bind   bindConfig   `toml:"bind"`
	Output outputConfig `toml:"output"`
	Trace  traceConfig  `toml:"trace"`
}

type bindConfig struct {
	Files          []string `toml:"files"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Validate       bool     `toml:"validate"`
}

type outputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// isDefined reports whether the manifest sets key.
func (m *manifest) isDefined(key ...string) bool {
	return m != nil && m.meta.IsDefined(key...)
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func loadManifest(path string) (*manifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("bind", "jobs") && cfg.Bind.Jobs < 0 {
		return nil, fmt.Errorf("%s: [bind].jobs must not be negative", path)
	}
	if meta.IsDefined("bind", "max_diagnostics") && cfg.Bind.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [bind].max_diagnostics must not be negative", path)
	}
	if meta.IsDefined("output", "format") {
		if _, err := parseOutputFormat(cfg.Output.Format); err != nil {
			return nil, fmt.Errorf("%s: [output].format: %w", path, err)
		}
	}
	if meta.IsDefined("output", "color") {
		if err := checkColorMode(cfg.Output.Color); err != nil {
			return nil, fmt.Errorf("%s: [output].color: %w", path, err)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg, meta: meta}, nil
}

// settings is the effective configuration: flags the user set win over the
// manifest, which wins over flag defaults.
type settings struct {
	Files          []string
	Jobs           int
	MaxDiagnostics int
	Validate       bool
	Format         string
	Color          string
	PathMode       string
	Quiet          bool
	Timings        bool
	UI             string
	TraceLevel     string
	TraceMode      string
	TraceOutput    string
	TraceRingSize  int
	TraceHeartbeat time.Duration
	Profile        prof.Config
	// BaseDir is the directory relative paths are printed against.
	BaseDir string
}

func (a *app) configure(cmd *cobra.Command) error {
	m, err := discoverManifest(cmd)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, m)
	if err != nil {
		return err
	}
	a.manifest = m
	a.settings = s
	return nil
}

func discoverManifest(cmd *cobra.Command) (*manifest, error) {
	flags := cmd.Flags()
	if off, _ := flags.GetBool("no-config"); off {
		return nil, nil
	}
	path, _ := flags.GetString("config")
	if path == "" {
		found, ok, err := findManifest(".")
		if err != nil || !ok {
			return nil, err
		}
		path = found
	}
	return loadManifest(path)
}

func resolveSettings(cmd *cobra.Command, m *manifest) (settings, error) {
	r := resolver{flags: cmd.Flags(), m: m}
	s := settings{
		Jobs:           r.int("jobs", "bind", "jobs", m.cfg().Bind.Jobs),
		MaxDiagnostics: r.int("max-diagnostics", "bind", "max_diagnostics", m.cfg().Bind.MaxDiagnostics),
		Validate:       r.bool("validate", "bind", "validate", m.cfg().Bind.Validate),
		Format:         r.string("format", "output", "format", m.cfg().Output.Format),
		Color:          r.string("color", "output", "color", m.cfg().Output.Color),
		PathMode:       r.string("path-mode", "output", "path_mode", m.cfg().Output.PathMode),
		TraceLevel:     r.string("trace-level", "trace", "level", m.cfg().Trace.Level),
		TraceMode:      r.string("trace-mode", "trace", "mode", m.cfg().Trace.Mode),
		TraceOutput:    r.string("trace", "trace", "output", m.cfg().Trace.Output),
	}
	s.Quiet, _ = cmd.Flags().GetBool("quiet")
	s.Timings, _ = cmd.Flags().GetBool("timings")
	s.UI, _ = cmd.Flags().GetString("ui")
	s.TraceRingSize, _ = cmd.Flags().GetInt("trace-ring-size")
	s.TraceHeartbeat, _ = cmd.Flags().GetDuration("trace-heartbeat")
	s.Profile.CPU, _ = cmd.Flags().GetString("cpu-profile")
	s.Profile.Mem, _ = cmd.Flags().GetString("mem-profile")
	s.Profile.Trace, _ = cmd.Flags().GetString("runtime-trace")
	if r.err != nil {
		return settings{}, r.err
	}

	// An output path alone turns tracing on at phase level.
	if s.TraceOutput != "" && s.TraceLevel == "off" && !cmd.Flags().Changed("trace-level") && !m.isDefined("trace", "level") {
		s.TraceLevel = "phase"
	}
	if err := checkColorMode(s.Color); err != nil {
		return settings{}, fmt.Errorf("--color: %w", err)
	}

	if m != nil {
		s.BaseDir = m.Root
		for _, f := range m.Config.Bind.Files {
			if !filepath.IsAbs(f) {
				f = filepath.Join(m.Root, filepath.FromSlash(f))
			}
			s.Files = append(s.Files, f)
		}
		if s.TraceOutput != "" && s.TraceOutput != "-" && !cmd.Flags().Changed("trace") && !filepath.IsAbs(s.TraceOutput) {
			s.TraceOutput = filepath.Join(m.Root, s.TraceOutput)
		}
	}
	return s, nil
}

func (m *manifest) cfg() manifestConfig {
	if m == nil {
		return manifestConfig{}
	}
	return m.Config
}

// resolver picks each setting from a changed flag, the manifest, or the
// flag default. Flags that a command does not define fall through to the
// manifest value.
type resolver struct {
	flags *pflag.FlagSet
	m     *manifest
	err   error
}

func (r *resolver) fromManifest(flag, section, key string) bool {
	return !r.flags.Changed(flag) && r.m.isDefined(section, key)
}

func (r *resolver) defined(flag string) bool {
	return r.flags.Lookup(flag) != nil
}

func (r *resolver) string(flag, section, key, manifestValue string) string {
	if r.fromManifest(flag, section, key) || !r.defined(flag) {
		return manifestValue
	}
	v, err := r.flags.GetString(flag)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	return v
}

func (r *resolver) int(flag, section, key string, manifestValue int) int {
	if r.fromManifest(flag, section, key) || !r.defined(flag) {
		return manifestValue
	}
	v, err := r.flags.GetInt(flag)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	return v
}

func (r *resolver) bool(flag, section, key string, manifestValue bool) bool {
	if r.fromManifest(flag, section, key) || !r.defined(flag) {
		return manifestValue
	}
	v, err := r.flags.GetBool(flag)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	return v
}

func checkColorMode(mode string) error {
	switch mode {
	case "auto", "on", "off":
		return nil
	}
	return fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
}
