package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"underware/internal/driver"
	"underware/internal/macro"
	"underware/internal/observ"
	"underware/internal/project"
)

// session is everything a command needs to run the driver against one
// target: merged configuration, the macro registry and driver options.
type session struct {
	cfg     project.Config
	reg     *macro.Registry
	opts    driver.Options
	color   bool
	quiet   bool
	uiMode  uiMode
	timer   *observ.Timer
	failed  bool
	cleanup []func()
}

// openSession merges underware.toml with explicitly set flags. Flags win
// over the file; the file wins over defaults.
func openSession(cmd *cobra.Command, target string) (*session, error) {
	pf := cmd.Root().PersistentFlags()

	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return nil, err
	}
	if pf.Changed("jobs") {
		if cfg.Expand.Jobs, err = pf.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if pf.Changed("max-diagnostics") || !cfg.IsSet("diagnostics.max") {
		if cfg.Diagnostics.Max, err = pf.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	if pf.Changed("color") {
		if cfg.Diagnostics.Color, err = pf.GetString("color"); err != nil {
			return nil, err
		}
	}
	noCache, err := pf.GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, err
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return nil, err
	}
	uiValue, err := pf.GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		reg:    reg,
		quiet:  quiet,
		uiMode: mode,
		color:  resolveColor(cfg.Diagnostics.Color),
	}
	color.NoColor = !s.color
	if timings {
		s.timer = observ.NewTimer()
	}

	s.opts = driver.Options{
		Registry:       reg,
		MaxDiagnostics: cfg.Diagnostics.Max,
		Jobs:           cfg.Expand.Jobs,
		Extensions:     cfg.Expand.Extensions,
		Timer:          s.timer,
	}
	if cfg.Expand.Cache && !noCache {
		cache, err := driver.OpenDiskCache("underware")
		if err != nil {
			// a missing cache only costs speed
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "underware: cache disabled: %v\n", err)
			}
		} else {
			s.opts.Cache = cache
		}
	}

	stopTrace, err := setupTracing(cmd, &s.failed)
	if err != nil {
		return nil, err
	}
	s.cleanup = append(s.cleanup, stopTrace)
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		s.close()
		return nil, err
	}
	s.cleanup = append(s.cleanup, stopProf)
	return s, nil
}

// close releases tracing and profiling in reverse order and prints timings.
func (s *session) close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
}

func (s *session) printTimings(cmd *cobra.Command) {
	if s.timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
}

func loadConfig(cmd *cobra.Command, target string) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	if path != "" {
		return project.LoadConfig(path)
	}
	start := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		start = filepath.Dir(target)
	}
	return project.Discover(start)
}

// buildRegistry is the composition root of the macro table.
func buildRegistry(cfg project.Config) (*macro.Registry, error) {
	reg, err := macro.NewRegistry(macro.Builtins()...)
	if err != nil {
		return nil, err
	}
	if len(cfg.Macros.Aliases) == 0 {
		return reg, nil
	}
	reg, err = reg.WithAliases(cfg.Macros.Aliases)
	if err != nil {
		return nil, fmt.Errorf("%s: [macros].aliases: %w", cfg.Path, err)
	}
	return reg, nil
}

func resolveColor(value string) bool {
	switch value {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stderr) && os.Getenv("NO_COLOR") == ""
	}
}
