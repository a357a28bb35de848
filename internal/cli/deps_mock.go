package cli

import (
	"time"

	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/executor"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	LoadCalls []string
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.LoadCalls = append(m.LoadCalls, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	Root  bool
	Calls int
}

func (m *MockRootChecker) IsRoot() bool {
	m.Calls++
	return m.Root
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader: &MockConfigLoader{Cfg: config.New()},
			Executor:     &executor.MockExecutor{},
			RootChecker:  &MockRootChecker{Root: true},
			Clock:        time.Now,
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithExecutor sets the executor used for certbot and nginx
func (b *MockDependenciesBuilder) WithExecutor(exec executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = exec
	return b
}

// WithRootAccess sets whether root access is available
func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{Root: isRoot}
	return b
}

// WithClock fixes the time used for backup headers
func (b *MockDependenciesBuilder) WithClock(now func() time.Time) *MockDependenciesBuilder {
	b.deps.Clock = now
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// TestHelper provides utilities for CLI tests
type TestHelper struct {
	T interface {
		Helper()
		Cleanup(func())
	}
	OldDeps  *Dependencies
	Config   *config.Config
	Executor *executor.MockExecutor
}

// NewTestHelper installs mock dependencies whose layout points at the given
// paths and restores the previous dependencies and flags on cleanup.
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}, paths config.Paths) *TestHelper {
	t.Helper()

	cfg := config.New()
	cfg.Paths = paths
	exec := &executor.MockExecutor{}

	helper := &TestHelper{
		T:        t,
		OldDeps:  deps,
		Config:   cfg,
		Executor: exec,
	}

	SetDeps(NewMockDeps().WithConfig(cfg).WithExecutor(exec).Build())
	resetFlags()

	t.Cleanup(func() {
		SetDeps(helper.OldDeps)
		resetFlags()
	})

	return helper
}

// resetFlags restores flag variables to their defaults
func resetFlags() {
	configPath = ""
	jsonOutput = false
	verbose = false
	siteType = config.TypeHTML
	certEmail = ""
	getCert = false
}
