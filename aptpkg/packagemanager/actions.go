package packagemanager

import (
	"context"
	"errors"
	"fmt"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
)

var (
	ErrVersionMismatch = errors.New("package names and versions differ in length")
	ErrNoPackages      = errors.New("no packages given")
)

// installTokens pins each concrete package to its version. Virtual names
// are passed bare since a provider's version does not apply to them.
func installTokens(names, versions []string, virtual VirtualMap) ([]string, error) {
	if len(names) == 0 {
		return nil, ErrNoPackages
	}
	if len(names) != len(versions) {
		return nil, fmt.Errorf("%w: %d names, %d versions", ErrVersionMismatch, len(names), len(versions))
	}

	tokens := make([]string, len(names))
	for i, name := range names {
		if virtual[name] || versions[i] == "" {
			tokens[i] = name
			continue
		}
		tokens[i] = name + "=" + versions[i]
	}
	return tokens, nil
}

func (apm *AptPackageManager) Install(ctx context.Context, names, versions []string, virtual VirtualMap) error {
	tokens, err := installTokens(names, versions, virtual)
	if err != nil {
		return err
	}

	args := []string{"-q", "-y"}
	args = append(args, apm.defaultReleaseArgs()...)
	args = append(args, apm.Options...)
	args = append(args, "install")
	args = append(args, tokens...)

	apm.log().Info("Installing packages", "packages", tokens)
	return apm.runAptGet(ctx, args)
}

// Upgrade is an install of the requested versions; apt-get makes no
// distinction between the two.
func (apm *AptPackageManager) Upgrade(ctx context.Context, names, versions []string, virtual VirtualMap) error {
	return apm.Install(ctx, names, versions, virtual)
}

func (apm *AptPackageManager) Remove(ctx context.Context, names []string) error {
	return apm.removeWith(ctx, "remove", names)
}

func (apm *AptPackageManager) Purge(ctx context.Context, names []string) error {
	return apm.removeWith(ctx, "purge", names)
}

func (apm *AptPackageManager) removeWith(ctx context.Context, subcommand string, names []string) error {
	if len(names) == 0 {
		return ErrNoPackages
	}

	args := []string{"-q", "-y"}
	args = append(args, apm.Options...)
	args = append(args, subcommand)
	args = append(args, names...)

	apm.log().Info("Removing packages", "subcommand", subcommand, "packages", names)
	return apm.runAptGet(ctx, args)
}

// Preseed feeds a debconf selections file to the host.
func (apm *AptPackageManager) Preseed(ctx context.Context, path string) error {
	apm.log().Info("Preseeding debconf selections", "file", path)
	_, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "debconf-set-selections",
		Args:    []string{path},
		Env:     []string{noninteractiveEnv},
		Sudo:    apm.Sudo,
		Timeout: apm.Timeout,
	})
	return err
}

func (apm *AptPackageManager) Reconfigure(ctx context.Context, name string) error {
	apm.log().Info("Reconfiguring package", "package", name)
	_, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "dpkg-reconfigure",
		Args:    []string{name},
		Env:     []string{noninteractiveEnv},
		Sudo:    apm.Sudo,
		Timeout: apm.Timeout,
	})
	return err
}

func (apm *AptPackageManager) runAptGet(ctx context.Context, args []string) error {
	_, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-get",
		Args:    args,
		Env:     []string{noninteractiveEnv},
		Sudo:    apm.Sudo,
		Timeout: apm.Timeout,
	})
	return err
}
