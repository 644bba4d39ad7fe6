package packagemanager

import (
	"strings"
	"time"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	"github.com/steelcutops/aptpkg/logger"
)

const noninteractiveEnv = "DEBIAN_FRONTEND=noninteractive"

// AptPackageManager drives apt-cache, apt-get, debconf and dpkg on a
// Debian-family host.
type AptPackageManager struct {
	CommandManager cm.CommandManager
	// DefaultRelease pins queries and installs to a release when set.
	DefaultRelease string
	// Options are extra apt-get options added to action commands.
	Options []string
	// Sudo runs action commands through sudo.
	Sudo    bool
	Timeout time.Duration
	Logger  logger.Logger
}

type Option func(*AptPackageManager)

func WithDefaultRelease(release string) Option {
	return func(apm *AptPackageManager) {
		apm.DefaultRelease = release
	}
}

// WithOptions takes a space separated option string as written in config.
func WithOptions(options string) Option {
	return func(apm *AptPackageManager) {
		apm.Options = strings.Fields(options)
	}
}

func WithSudo(sudo bool) Option {
	return func(apm *AptPackageManager) {
		apm.Sudo = sudo
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(apm *AptPackageManager) {
		apm.Timeout = timeout
	}
}

func WithLogger(l logger.Logger) Option {
	return func(apm *AptPackageManager) {
		apm.Logger = l
	}
}

func NewAptPackageManager(commandManager cm.CommandManager, options ...Option) *AptPackageManager {
	apm := &AptPackageManager{CommandManager: commandManager}
	for _, option := range options {
		option(apm)
	}
	return apm
}

func (apm *AptPackageManager) defaultReleaseArgs() []string {
	if apm.DefaultRelease == "" {
		return []string{}
	}
	return []string{"-o", "APT::Default-Release=" + apm.DefaultRelease}
}

func (apm *AptPackageManager) log() logger.Logger {
	if apm.Logger != nil {
		return apm.Logger
	}
	return logger.Default()
}
