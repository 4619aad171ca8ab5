// Package xunit ties the orchestration core together: run configuration,
// the error taxonomy and the human-facing run summary.
package xunit

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/james-s-tayler/xunit/filter"
	"github.com/james-s-tayler/xunit/flags"
	"github.com/james-s-tayler/xunit/types"
)

// moduleConfig is the YAML shape of a per-module config file. Durations
// are strings ("45s", "2m") and parsed explicitly.
type moduleConfig struct {
	ParallelizeModule      *bool  `yaml:"parallelize_module"`
	ParallelizeCollections *bool  `yaml:"parallelize_collections"`
	MaxThreads             int    `yaml:"max_threads"`
	Diagnostics            bool   `yaml:"diagnostics"`
	InternalDiagnostics    bool   `yaml:"internal_diagnostics"`
	LongRunning            string `yaml:"long_running"`
	StopOnFail             bool   `yaml:"stop_on_fail"`
	SerializeTokens        bool   `yaml:"serialize"`
	PreEnumerate           bool   `yaml:"pre_enumerate"`
}

// LoadModuleOptions reads a per-module YAML config file. Unknown keys are
// rejected so typos in config files surface as errors instead of silently
// running with defaults.
func LoadModuleOptions(path string) (types.ModuleOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ModuleOptions{}, fmt.Errorf("reading module config %s: %w", path, err)
	}

	var cfg moduleConfig
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return types.ModuleOptions{}, fmt.Errorf("parsing module config %s: %w", path, err)
	}

	opts := types.ModuleOptions{
		ParallelizeModule:      cfg.ParallelizeModule,
		ParallelizeCollections: cfg.ParallelizeCollections,
		MaxThreads:             cfg.MaxThreads,
		Diagnostics:            cfg.Diagnostics,
		InternalDiagnostics:    cfg.InternalDiagnostics,
		StopOnFail:             cfg.StopOnFail,
		SerializeTokens:        cfg.SerializeTokens,
		PreEnumerate:           cfg.PreEnumerate,
	}
	if cfg.LongRunning != "" {
		d, err := time.ParseDuration(cfg.LongRunning)
		if err != nil {
			return types.ModuleOptions{}, fmt.Errorf("parsing module config %s: long_running: %w", path, err)
		}
		opts.LongRunning = d
	}
	return opts, nil
}

// ParseModuleSpec parses a --module flag value of the form
// "id=path" or "id=path:config". A bare path is accepted too; the module
// ID then defaults to the path itself.
func ParseModuleSpec(spec string) (types.Module, error) {
	if spec == "" {
		return types.Module{}, fmt.Errorf("empty module spec")
	}

	id := spec
	rest := spec
	if i := strings.Index(spec, "="); i >= 0 {
		id = spec[:i]
		rest = spec[i+1:]
		if id == "" {
			return types.Module{}, fmt.Errorf("module spec %q has an empty id", spec)
		}
	}
	if rest == "" {
		return types.Module{}, fmt.Errorf("module spec %q has an empty path", spec)
	}

	path := rest
	config := ""
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		path = rest[:i]
		config = rest[i+1:]
		if path == "" || config == "" {
			return types.Module{}, fmt.Errorf("module spec %q has an empty path or config", spec)
		}
	}

	if id == spec {
		id = path
	}
	return types.Module{ID: id, Path: path, ConfigPath: config}, nil
}

// GlobalFromCLI builds the run-wide options from parsed command line flags.
func GlobalFromCLI(c *cli.Context) types.GlobalOptions {
	g := types.GlobalOptions{
		MaxThreads:          c.Int(flags.MaxThreads.Name),
		Diagnostics:         c.Bool(flags.Diagnostics.Name),
		InternalDiagnostics: c.Bool(flags.InternalDiagnostics.Name),
		StopOnFail:          c.Bool(flags.StopOnFail.Name),
		FailSkips:           c.Bool(flags.FailSkips.Name),
		SerializeTokens:     c.Bool(flags.Serialize.Name),
		LongRunning:         c.Duration(flags.LongRunning.Name),
		Report:              c.Bool(flags.Report.Name),
		ReportDir:           c.String(flags.ReportDir.Name),
	}
	if c.IsSet(flags.Parallel.Name) {
		v := c.Bool(flags.Parallel.Name)
		g.Parallel = &v
	}
	return g
}

// ModulesFromCLI builds the module list from --module flags plus any
// positional path arguments.
func ModulesFromCLI(c *cli.Context) ([]types.Module, error) {
	specs := append(c.StringSlice(flags.Module.Name), c.Args().Slice()...)
	if len(specs) == 0 {
		return nil, fmt.Errorf("no modules given; use --module or positional paths")
	}

	modules := make([]types.Module, 0, len(specs))
	for _, spec := range specs {
		m, err := ParseModuleSpec(spec)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	if err := ValidateModules(modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// FiltersFromCLI compiles the --run/--skip patterns.
func FiltersFromCLI(c *cli.Context) (filter.Filters, error) {
	var f filter.Filters
	for _, p := range c.StringSlice(flags.Run.Name) {
		if err := f.MustMatch.Set(p); err != nil {
			return f, fmt.Errorf("--run: %w", err)
		}
	}
	for _, p := range c.StringSlice(flags.Skip.Name) {
		if err := f.MustNotMatch.Set(p); err != nil {
			return f, fmt.Errorf("--skip: %w", err)
		}
	}
	return f, nil
}

// ValidateModules checks that module identities are unique across the run.
// Duplicate IDs would collide in the completion registry.
func ValidateModules(modules []types.Module) error {
	seen := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}
