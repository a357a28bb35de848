package cli

import (
	"os"
	"time"

	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/executor"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader ConfigLoader
	Executor     executor.CommandExecutor
	RootChecker  RootChecker
	Clock        func() time.Time
}

// ConfigLoader handles configuration loading
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

// RootChecker reports whether the process runs with root privileges
type RootChecker interface {
	IsRoot() bool
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader: &realConfigLoader{},
	Executor:     executor.NewSystemExecutor(),
	RootChecker:  &realRootChecker{},
	Clock:        time.Now,
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

type realRootChecker struct{}

func (r *realRootChecker) IsRoot() bool {
	return os.Geteuid() == 0
}
