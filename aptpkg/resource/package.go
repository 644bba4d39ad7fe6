// Package resource exposes apt packages as resources: the requested state
// of one or more packages, the current state loaded from the host and the
// actions that bring one to the other.
package resource

import (
	"errors"
	"fmt"

	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
)

var (
	ErrUnsupportedAttribute = errors.New("unsupported attribute")
	ErrNoCandidate          = errors.New("no candidate version available")
)

type Action string

const (
	ActionInstall  Action = "install"
	ActionUpgrade  Action = "upgrade"
	ActionRemove   Action = "remove"
	ActionPurge    Action = "purge"
	ActionReconfig Action = "reconfig"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionInstall, ActionUpgrade, ActionRemove, ActionPurge, ActionReconfig:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Package is the requested state of one or more apt packages.
type Package struct {
	Names []string
	// Versions pins Names positionally; empty entries mean "candidate".
	Versions []string
	// Multi marks a list request, which keeps list-shaped results even for
	// a single name.
	Multi bool
	// Source is a local .deb path. apt cannot install from one.
	Source string
	// ResponseFile is a debconf selections file preseeded before install.
	ResponseFile string
}

func NewPackage(names ...string) *Package {
	return &Package{Names: names, Multi: len(names) > 1}
}

func (p *Package) String() string {
	if len(p.Names) == 1 {
		return fmt.Sprintf("package[%s]", p.Names[0])
	}
	return fmt.Sprintf("package%v", p.Names)
}

// Validate rejects requests apt cannot serve. It runs no commands.
func (p *Package) Validate() error {
	if p.Source != "" {
		return fmt.Errorf("%w: apt cannot install %s from source %q, use dpkg instead", ErrUnsupportedAttribute, p, p.Source)
	}
	if len(p.Names) == 0 {
		return pm.ErrNoPackages
	}
	if len(p.Versions) > 0 && len(p.Versions) != len(p.Names) {
		return fmt.Errorf("%w: %d names, %d versions", pm.ErrVersionMismatch, len(p.Names), len(p.Versions))
	}
	return nil
}

// Version returns the requested version for index i, or "".
func (p *Package) Version(i int) string {
	if i < len(p.Versions) {
		return p.Versions[i]
	}
	return ""
}
