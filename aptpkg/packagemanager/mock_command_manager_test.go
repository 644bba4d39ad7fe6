package packagemanager

import (
	"context"
	"strings"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	"github.com/steelcutops/aptpkg/logger"
	"github.com/stretchr/testify/mock"
)

type MockCommandManager struct {
	mock.Mock
}

func (m *MockCommandManager) RunLocal(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.Run(ctx, config)
}

func (m *MockCommandManager) RunRemote(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.Run(ctx, config)
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	args := m.Called(config)
	return cm.CommandResult{STDOUT: args.String(0)}, args.Error(1)
}

// FakeCommandManager answers commands from canned outputs keyed by the
// full command line and records every call.
type FakeCommandManager struct {
	Outputs map[string]string
	Errors  map[string]error
	Calls   []string
}

func commandLine(config cm.CommandConfig) string {
	return strings.Join(append([]string{config.Command}, cm.CompactArgs(config.Args...)...), " ")
}

func (f *FakeCommandManager) RunLocal(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return f.Run(ctx, config)
}

func (f *FakeCommandManager) RunRemote(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return f.Run(ctx, config)
}

func (f *FakeCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	line := commandLine(config)
	f.Calls = append(f.Calls, line)
	if err, ok := f.Errors[line]; ok {
		return cm.CommandResult{Command: line, ExitCode: 100}, err
	}
	return cm.CommandResult{Command: line, STDOUT: f.Outputs[line]}, nil
}

func newTestManager(runner cm.CommandManager, options ...Option) *AptPackageManager {
	options = append([]Option{WithLogger(logger.Discard())}, options...)
	return NewAptPackageManager(runner, options...)
}

func policyReport(name, installed, candidate string) string {
	return name + ":\n" +
		"  Installed: " + installed + "\n" +
		"  Candidate: " + candidate + "\n" +
		"  Version table:\n" +
		" *** " + candidate + " 500\n" +
		"        500 http://deb.debian.org/debian bookworm/main amd64 Packages\n" +
		"        100 /var/lib/dpkg/status\n"
}

func showpkgReport(name string, providers ...string) string {
	var b strings.Builder
	b.WriteString("Package: " + name + "\n")
	b.WriteString("Versions: \n\n")
	b.WriteString("Reverse Depends: \n")
	b.WriteString("  bsd-mailx," + name + "\n")
	b.WriteString("Dependencies: \n")
	b.WriteString("Provides: \n")
	b.WriteString("Reverse Provides: \n")
	for _, p := range providers {
		b.WriteString(p + " 1.0-1 (= )\n")
	}
	return b.String()
}
