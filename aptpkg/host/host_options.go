package host

import (
	"time"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
	"github.com/steelcutops/aptpkg/logger"
)

type HostOption func(*Host)

// WithUser returns a HostOption that sets the user for a Host.
func WithUser(user string) HostOption {
	return func(host *Host) {
		host.User = user
	}
}

// WithPassword returns a HostOption that sets the password for a Host.
func WithPassword(password string) HostOption {
	return func(host *Host) {
		host.Password = password
	}
}

// WithKeyPassphrase returns a HostOption that sets the key passphrase for a Host.
func WithKeyPassphrase(keyPassphrase string) HostOption {
	return func(host *Host) {
		host.KeyPassphrase = keyPassphrase
	}
}

// WithSudoPassword returns a HostOption that sets the sudo password for a Host.
// Action commands then run through sudo.
func WithSudoPassword(password string) HostOption {
	return func(host *Host) {
		host.SudoPassword = password
		host.aptOptions = append(host.aptOptions, pm.WithSudo(true))
	}
}

func WithSSHClient(client cm.SSHDialer) HostOption {
	return func(host *Host) {
		host.SSHClient = client
	}
}

// WithTimeout bounds every command run on the host.
func WithTimeout(timeout time.Duration) HostOption {
	return func(host *Host) {
		host.Timeout = timeout
	}
}

func WithLogger(l logger.Logger) HostOption {
	return func(host *Host) {
		host.Logger = l
	}
}

// WithCommandManager replaces the default SSH/local runner.
func WithCommandManager(manager cm.CommandManager) HostOption {
	return func(host *Host) {
		host.CommandManager = manager
	}
}

// WithAptOptions passes options through to the host's AptPackageManager.
func WithAptOptions(options ...pm.Option) HostOption {
	return func(host *Host) {
		host.aptOptions = append(host.aptOptions, options...)
	}
}
