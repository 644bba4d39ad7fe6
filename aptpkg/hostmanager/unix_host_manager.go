package hostmanager

import (
	"context"
	"strings"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
)

var debianFamily = map[string]bool{
	"debian": true,
	"ubuntu": true,
}

type UnixHostManager struct {
	CommandManager cm.CommandManager
}

// Info gathers the facts reported by the status command.
func (uhm *UnixHostManager) Info(ctx context.Context) (HostInfo, error) {
	hostname, err := uhm.Hostname(ctx)
	if err != nil {
		return HostInfo{}, err
	}

	release, err := uhm.OSRelease(ctx)
	if err != nil {
		return HostInfo{}, err
	}

	kernelVersionOutput, err := uhm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "uname",
		Args:    []string{"-r"},
	})
	if err != nil {
		return HostInfo{}, err
	}

	return HostInfo{
		Hostname:      hostname,
		KernelVersion: strings.TrimSpace(kernelVersionOutput.STDOUT),
		OS:            release,
	}, nil
}

func (uhm *UnixHostManager) Hostname(ctx context.Context) (string, error) {
	output, err := uhm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "hostname",
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output.STDOUT), nil
}

func (uhm *UnixHostManager) OSRelease(ctx context.Context) (OSRelease, error) {
	output, err := uhm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "cat",
		Args:    []string{"/etc/os-release"},
	})
	if err != nil {
		return OSRelease{}, err
	}
	return ParseOSRelease(output.STDOUT), nil
}

// ParseOSRelease reads KEY=value lines, with or without quotes.
func ParseOSRelease(report string) OSRelease {
	var release OSRelease
	for _, line := range strings.Split(report, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || strings.HasPrefix(key, "#") {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			release.ID = strings.ToLower(value)
		case "ID_LIKE":
			release.IDLike = strings.Fields(strings.ToLower(value))
		case "VERSION_ID":
			release.VersionID = value
		case "VERSION_CODENAME":
			release.VersionCodename = value
		case "PRETTY_NAME":
			release.PrettyName = value
		}
	}
	return release
}

// IsDebianFamily reports whether apt is the native package manager.
func (r OSRelease) IsDebianFamily() bool {
	if debianFamily[r.ID] {
		return true
	}
	for _, like := range r.IDLike {
		if debianFamily[like] {
			return true
		}
	}
	return false
}

func (r OSRelease) String() string {
	if r.PrettyName != "" {
		return r.PrettyName
	}
	if r.ID == "" {
		return "unknown"
	}
	return r.ID
}
