// Package host binds a hostname to the command runner, host facts and apt
// package manager used to operate on it.
package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	"github.com/steelcutops/aptpkg/aptpkg/filemanager"
	"github.com/steelcutops/aptpkg/aptpkg/hostmanager"
	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
	"github.com/steelcutops/aptpkg/logger"
)

var ErrUnsupportedOS = errors.New("unsupported operating system")

type Host struct {
	Hostname string
	cm.Credentials
	SSHClient cm.SSHDialer
	Timeout   time.Duration
	Logger    logger.Logger

	CommandManager cm.CommandManager
	HostManager    hostmanager.HostManager
	FileManager    filemanager.FileManager
	PackageManager *pm.AptPackageManager
	OS             hostmanager.OSRelease

	aptOptions []pm.Option
}

// NewHost connects the managers for hostname and refuses hosts that are
// not Debian family.
func NewHost(ctx context.Context, hostname string, options ...HostOption) (*Host, error) {
	h := &Host{Hostname: hostname}

	for _, option := range options {
		option(h)
	}

	if h.Logger == nil {
		h.Logger = logger.Default()
	}

	// Initializing the CommandManager is required before determining the OS
	if h.CommandManager == nil {
		h.CommandManager = &cm.UnixCommandManager{
			Hostname:    hostname,
			SSHClient:   h.SSHClient,
			Timeout:     h.Timeout,
			Logger:      h.Logger,
			Credentials: h.Credentials,
		}
	}
	if h.HostManager == nil {
		h.HostManager = &hostmanager.UnixHostManager{CommandManager: h.CommandManager}
	}

	if h.FileManager == nil {
		h.FileManager = &filemanager.UnixFileManager{CommandManager: h.CommandManager}
	}

	release, err := h.HostManager.OSRelease(ctx)
	if err != nil {
		return nil, fmt.Errorf("determining OS of %s: %w", hostname, err)
	}
	if !release.IsDebianFamily() {
		return nil, fmt.Errorf("%w: %s runs %s", ErrUnsupportedOS, hostname, release)
	}
	h.OS = release

	aptOptions := []pm.Option{pm.WithLogger(h.Logger), pm.WithTimeout(h.Timeout)}
	h.PackageManager = pm.NewAptPackageManager(h.CommandManager, append(aptOptions, h.aptOptions...)...)

	h.Logger.Debug("Host ready", "host", hostname, "os", release.String())
	return h, nil
}

// Info reports the host facts shown by status.
func (h *Host) Info(ctx context.Context) (hostmanager.HostInfo, error) {
	return h.HostManager.Info(ctx)
}

func (h *Host) String() string {
	return h.Hostname
}
