package commandmanager

import (
	"context"
	"time"
)

// DefaultTimeout bounds every command that does not carry its own timeout.
const DefaultTimeout = 900 * time.Second

// CommandConfig describes a single command invocation.
type CommandConfig struct {
	Command string
	Args    []string
	// Env holds KEY=VALUE pairs added to the command's environment.
	Env     []string
	Sudo    bool
	Timeout time.Duration
}

// CommandResult encapsulates the results from a command execution.
type CommandResult struct {
	Command   string
	STDOUT    string
	STDERR    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// CommandManager provides methods to execute commands, both locally and remotely.
type CommandManager interface {
	// RunLocal executes a command on the local system.
	RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error)

	// RunRemote executes a command on a remote system via SSH.
	RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error)

	// Run picks local or remote execution for the managed host.
	Run(ctx context.Context, config CommandConfig) (CommandResult, error)
}

// Credentials carries the authentication material for a host.
type Credentials struct {
	User          string
	Password      string
	KeyPassphrase string
	SudoPassword  string
}

// CompactArgs drops empty arguments so optional flags can be passed inline.
func CompactArgs(args ...string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
