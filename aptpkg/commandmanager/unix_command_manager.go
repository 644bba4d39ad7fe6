package commandmanager

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/steelcutops/aptpkg/logger"
	"golang.org/x/crypto/ssh"
)

// waitDelay bounds how long a killed command may keep its output pipes open.
const waitDelay = 2 * time.Second

type SSHDialer interface {
	Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error)
}

type UnixCommandManager struct {
	Hostname  string
	SSHClient SSHDialer
	// Timeout applies to commands whose config leaves Timeout unset.
	Timeout time.Duration
	Logger  logger.Logger
	Credentials
}

func (u *UnixCommandManager) RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error) {
	timeout := u.timeout(config)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := u.argv(config)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay
	if !config.Sudo && len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}
	if config.Sudo {
		cmd.Stdin = strings.NewReader(u.SudoPassword + "\n")
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	u.log().Debug("Executing local command", "command", strings.Join(argv, " "))
	err := cmd.Run()

	result := CommandResult{
		Command:   strings.Join(argv, " "),
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  time.Since(start),
		Timestamp: start,
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		u.log().Error("Command timed out", "command", result.Command, "timeout", timeout)
		return result, &TimeoutError{Command: result.Command, Timeout: timeout}
	}
	if config.Sudo {
		if err := checkSudo(result); err != nil {
			return result, err
		}
	}
	if err != nil {
		cmdErr := &CommandError{Command: result.Command, ExitCode: result.ExitCode, Stderr: strings.TrimSpace(result.STDERR)}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			cmdErr.Err = err
		}
		return result, cmdErr
	}

	return result, nil
}

func (c UnixCommandManager) getSSHConfig() (*ssh.ClientConfig, error) {
	var authMethod ssh.AuthMethod

	if c.Password != "" {
		c.log().Debug("Using password authentication", "hostname", c.Hostname)
		authMethod = ssh.Password(c.Password)
	} else {
		c.log().Debug("Using public key authentication", "hostname", c.Hostname)
		var keyManager SSHKeyManager
		if c.KeyPassphrase != "" {
			keyManager = FileSSHKeyManager{}
		} else {
			keyManager = AgentSSHKeyManager{}
		}

		keys, err := keyManager.ReadPrivateKeys(c.KeyPassphrase)
		if err != nil {
			return nil, err
		}

		authMethod = ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			return keys, nil
		})
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            []ssh.AuthMethod{authMethod},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}, nil
}

func (u *UnixCommandManager) RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error) {
	u.log().Debug("Executing remote command", "hostname", u.Hostname, "command", config.Command)

	if u.SSHClient == nil {
		return CommandResult{}, errors.New("SSHClient is not initialized")
	}

	timeout := u.timeout(config)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sshConfig, err := u.getSSHConfig()
	if err != nil {
		return CommandResult{}, err
	}

	client, err := u.SSHClient.Dial("tcp", u.Hostname+":22", sshConfig, timeout)
	if err != nil {
		return CommandResult{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return CommandResult{}, err
	}
	defer session.Close()

	cmdStr := shellJoin(u.argv(config))
	if config.Sudo {
		session.Stdin = strings.NewReader(u.SudoPassword + "\n")
	}

	var stdout, stderr strings.Builder
	session.Stdout = &stdout
	session.Stderr = &stderr

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmdStr)
	}()

	select {
	case err := <-done:
		result := CommandResult{
			Command:   cmdStr,
			STDOUT:    stdout.String(),
			STDERR:    stderr.String(),
			ExitCode:  getExitCode(err),
			Duration:  time.Since(start),
			Timestamp: start,
		}
		if config.Sudo {
			if err := checkSudo(result); err != nil {
				return result, err
			}
		}
		if err != nil {
			u.log().Error("Failed to execute command over SSH", "command", cmdStr, "error", err, "stderr", result.STDERR)
			cmdErr := &CommandError{Command: cmdStr, ExitCode: result.ExitCode, Stderr: strings.TrimSpace(result.STDERR)}
			var exitErr *ssh.ExitError
			if !errors.As(err, &exitErr) {
				cmdErr.Err = err
			}
			return result, cmdErr
		}
		return result, nil

	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			u.log().Error("Command over SSH timed out", "command", cmdStr, "timeout", timeout)
			return CommandResult{Command: cmdStr}, &TimeoutError{Command: cmdStr, Timeout: timeout}
		}
		return CommandResult{Command: cmdStr}, ctx.Err()
	}
}

func (u *UnixCommandManager) Run(ctx context.Context, config CommandConfig) (CommandResult, error) {
	if u.isLocal() {
		u.log().Debug("Detected local so running local command", "hostname", u.Hostname, "command", config.Command)
		return u.RunLocal(ctx, config)
	}

	u.log().Debug("Detected remote command so running remote command", "hostname", u.Hostname, "command", config.Command)
	return u.RunRemote(ctx, config)
}

func (u *UnixCommandManager) isLocal() bool {
	return u.Hostname == "" || u.Hostname == "localhost" || u.Hostname == "127.0.0.1"
}

func (u *UnixCommandManager) timeout(config CommandConfig) time.Duration {
	if config.Timeout > 0 {
		return config.Timeout
	}
	if u.Timeout > 0 {
		return u.Timeout
	}
	return DefaultTimeout
}

func (u *UnixCommandManager) log() logger.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return logger.Default()
}

// argv builds the full argument vector. Environment overrides are carried
// through env(1) whenever the process environment cannot be set directly.
func (u *UnixCommandManager) argv(config CommandConfig) []string {
	var argv []string
	if config.Sudo {
		argv = append(argv, "sudo", "-S")
	}
	if len(config.Env) > 0 && (config.Sudo || !u.isLocal()) {
		argv = append(argv, "env")
		argv = append(argv, config.Env...)
	}
	argv = append(argv, config.Command)
	return append(argv, CompactArgs(config.Args...)...)
}

var (
	errSudoPassword = errors.New("sudo: incorrect password provided")
	errSudoers      = errors.New("sudo: user is not in the sudoers file")
)

// checkSudo looks for sudo's own refusals, which sudo -S writes to stderr.
func checkSudo(result CommandResult) error {
	var reason error
	switch {
	case strings.Contains(result.STDERR, "incorrect password"):
		reason = errSudoPassword
	case strings.Contains(result.STDERR, "is not in the sudoers file"):
		reason = errSudoers
	default:
		return nil
	}
	return &CommandError{
		Command:  result.Command,
		ExitCode: result.ExitCode,
		Stderr:   strings.TrimSpace(result.STDERR),
		Err:      reason,
	}
}

func getExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var sshErr *ssh.ExitError
	if errors.As(err, &sshErr) {
		return sshErr.ExitStatus()
	}
	return -1
}

// shellJoin quotes argv for the remote shell.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:+,@%", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
