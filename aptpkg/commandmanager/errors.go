package commandmanager

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCommandFailed   = errors.New("command failed")
	ErrCommandTimedOut = errors.New("command timed out")
)

// CommandError reports a command that ran but did not succeed, either
// because it exited non-zero or because it could not be started.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// TimeoutError reports a command killed after exceeding its timeout.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrCommandTimedOut
}
