// Package config loads the optional fish.yaml project configuration.
//
//	app:
//	  name: inbox
//	compile:
//	  middleware: [constraints, snap, metrics]
//	log:
//	  level: debug
//	  format: json
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fish/pkg/errors"
	"github.com/go-drift/fish/pkg/flow"
	"github.com/go-drift/fish/pkg/log"
)

// FileName is the configuration file looked up in the project root.
const FileName = "fish.yaml"

// Middleware names accepted in compile.middleware.
const (
	MiddlewareConstraints = "constraints"
	MiddlewareSnap        = "snap"
	MiddlewareMetrics     = "metrics"
	MiddlewareSkipHidden  = "skip-hidden"
)

var knownMiddleware = []string{
	MiddlewareConstraints,
	MiddlewareSnap,
	MiddlewareMetrics,
	MiddlewareSkipHidden,
}

// DefaultMiddleware is used when compile.middleware is omitted.
var DefaultMiddleware = []string{MiddlewareConstraints, MiddlewareSnap}

// Config represents the optional fish.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Compile CompileConfig `yaml:"compile"`
	Log     LogConfig     `yaml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// CompileConfig selects the middleware registered on new compile states.
type CompileConfig struct {
	Middleware []string `yaml:"middleware,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	Middleware []string
	Log        log.Options
}

// LoadOptional reads fish.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, configError("config.LoadOptional", fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// Resolve loads fish.yaml (if present) from dir and fills defaults. The
// app name defaults to the last element of the go.mod module path, or the
// directory name outside a module.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	middleware := cfg.Compile.Middleware
	if len(middleware) == 0 {
		middleware = DefaultMiddleware
	}
	middleware = slices.Clone(middleware)
	for i, name := range middleware {
		name = strings.ToLower(strings.TrimSpace(name))
		if !slices.Contains(knownMiddleware, name) {
			return nil, configError("config.Resolve", fmt.Errorf("compile.middleware: unknown middleware %q (use one of %s)", name, strings.Join(knownMiddleware, ", ")))
		}
		middleware[i] = name
	}
	if dup := duplicate(middleware); dup != "" {
		return nil, configError("config.Resolve", fmt.Errorf("compile.middleware: %q listed twice", dup))
	}

	opts := log.Options{
		Level:  strings.TrimSpace(cfg.Log.Level),
		Format: strings.TrimSpace(cfg.Log.Format),
	}
	if _, err := log.New(opts); err != nil {
		return nil, configError("config.Resolve", fmt.Errorf("log: %w", err))
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		Middleware: middleware,
		Log:        opts,
	}, nil
}

// NewState builds a compile state with the configured middleware, in
// configuration order. When registerer is non-nil the metrics middleware's
// collectors are registered with it.
func (r *Resolved) NewState(logger logr.Logger, registerer prometheus.Registerer) (*flow.State, error) {
	state := flow.NewState(flow.WithLogger(logger.WithValues("app", r.AppName)))
	for _, name := range r.Middleware {
		switch name {
		case MiddlewareConstraints:
			state.UseConstraints()
		case MiddlewareSnap:
			state.UseSnap()
		case MiddlewareSkipHidden:
			state.Use(flow.SkipHidden())
		case MiddlewareMetrics:
			m := state.UseMetrics(nil)
			if registerer != nil {
				if err := m.Register(registerer); err != nil {
					return nil, configError("config.Resolved.NewState", fmt.Errorf("failed to register metrics: %w", err))
				}
			}
		}
	}
	return state, nil
}

// FindProjectRoot walks up from dir to the nearest directory holding
// fish.yaml or go.mod. It returns dir itself when neither is found.
func FindProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for current := abs; ; {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return abs, nil
		}
		current = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", configError("config.Resolve", fmt.Errorf("could not determine module path from go.mod"))
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "fish_app"
	}
	return base
}

func duplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}

func configError(op string, err error) *errors.FlowError {
	return &errors.FlowError{
		Op:        op,
		Kind:      errors.KindConfig,
		Err:       err,
		Timestamp: time.Now(),
	}
}
