package resource

import (
	"context"
	"fmt"

	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
	"github.com/steelcutops/aptpkg/logger"
)

// CurrentResource is what the host has for a Package right now.
type CurrentResource struct {
	resolution *pm.Resolution
}

func (c *CurrentResource) Names() []string {
	return c.resolution.Names
}

func (c *CurrentResource) Multi() bool {
	return c.resolution.Multi
}

// Version is the installed version of a single-name request.
func (c *CurrentResource) Version() pm.Version {
	return c.resolution.InstalledVersion()
}

func (c *CurrentResource) Versions() []pm.Version {
	return c.resolution.InstalledVersions()
}

func (c *CurrentResource) CandidateVersion() pm.Version {
	return c.resolution.CandidateVersion()
}

func (c *CurrentResource) CandidateVersions() []pm.Version {
	return c.resolution.CandidateVersions()
}

func (c *CurrentResource) VirtualMap() pm.VirtualMap {
	return c.resolution.Virtual
}

func (c *CurrentResource) States() []pm.PackageState {
	return c.resolution.States
}

// Provider converges a Package on one host.
type Provider struct {
	Package *Package
	Manager pm.PackageManager
	Logger  logger.Logger

	current *CurrentResource
}

func NewProvider(p *Package, manager pm.PackageManager, l logger.Logger) *Provider {
	return &Provider{Package: p, Manager: manager, Logger: l}
}

// LoadCurrentResource validates the request and resolves the state of
// every requested name.
func (p *Provider) LoadCurrentResource(ctx context.Context) (*CurrentResource, error) {
	if err := p.Package.Validate(); err != nil {
		return nil, err
	}

	res, err := p.Manager.CheckAllPackagesState(ctx, p.Package.Names, p.Package.Multi)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", p.Package, err)
	}

	for _, s := range res.States {
		if s.Virtual {
			p.log().Info("Package is virtual, acting on its provider", "package", s.Name, "provider", s.Provider)
		}
	}

	p.current = &CurrentResource{resolution: res}
	return p.current, nil
}

// Run applies action and reports whether anything was changed.
func (p *Provider) Run(ctx context.Context, action Action) (bool, error) {
	if p.current == nil {
		if _, err := p.LoadCurrentResource(ctx); err != nil {
			return false, err
		}
	}

	switch action {
	case ActionInstall:
		return p.install(ctx, false)
	case ActionUpgrade:
		return p.install(ctx, true)
	case ActionRemove:
		return p.remove(ctx, p.Manager.Remove)
	case ActionPurge:
		return p.remove(ctx, p.Manager.Purge)
	case ActionReconfig:
		return p.reconfig(ctx)
	default:
		return false, fmt.Errorf("unknown action %q", action)
	}
}

// install covers install and upgrade. Install leaves an installed package
// alone unless a different version was pinned; upgrade moves anything not
// at its target.
func (p *Provider) install(ctx context.Context, upgrade bool) (bool, error) {
	var names, versions []string

	for i, s := range p.current.States() {
		installed, isInstalled := s.Installed.Get()
		if isInstalled && !upgrade && p.Package.Version(i) == "" {
			p.log().Debug("Package already installed", "package", s.Name, "version", installed)
			continue
		}

		target, err := p.targetVersion(i, s)
		if err != nil {
			return false, err
		}
		if isInstalled && installed == target {
			p.log().Debug("Package already at target version", "package", s.Name, "version", installed)
			continue
		}

		names = append(names, s.Name)
		versions = append(versions, target)
	}

	if len(names) == 0 {
		return false, nil
	}

	if p.Package.ResponseFile != "" {
		if err := p.Manager.Preseed(ctx, p.Package.ResponseFile); err != nil {
			return false, err
		}
	}

	apply := p.Manager.Install
	if upgrade {
		apply = p.Manager.Upgrade
	}
	if err := apply(ctx, names, versions, p.current.VirtualMap()); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) targetVersion(i int, s pm.PackageState) (string, error) {
	if v := p.Package.Version(i); v != "" {
		return v, nil
	}
	candidate, ok := s.Candidate.Get()
	if !ok {
		return "", fmt.Errorf("%w for package %s", ErrNoCandidate, s.Name)
	}
	return candidate, nil
}

func (p *Provider) remove(ctx context.Context, apply func(context.Context, []string) error) (bool, error) {
	var names []string
	for _, s := range p.current.States() {
		if s.Installed.IsNone() {
			p.log().Debug("Package not installed", "package", s.Name)
			continue
		}
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return false, nil
	}

	if err := apply(ctx, p.current.resolution.Targets(names)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) reconfig(ctx context.Context) (bool, error) {
	var names []string
	for _, s := range p.current.States() {
		if s.Installed.IsNone() {
			p.log().Debug("Package not installed, skipping reconfigure", "package", s.Name)
			continue
		}
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return false, nil
	}

	if p.Package.ResponseFile != "" {
		if err := p.Manager.Preseed(ctx, p.Package.ResponseFile); err != nil {
			return false, err
		}
	}
	for _, target := range p.current.resolution.Targets(names) {
		if err := p.Manager.Reconfigure(ctx, target); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (p *Provider) log() logger.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logger.Default()
}
