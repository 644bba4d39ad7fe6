package packagemanager

import (
	"context"
	"fmt"
)

// PackageState is the resolved state of one requested package name. For a
// virtual name the versions are those of its provider.
type PackageState struct {
	Name      string  `json:"name"`
	Installed Version `json:"installed"`
	Candidate Version `json:"candidate"`
	Virtual   bool    `json:"virtual"`
	Provider  string  `json:"provider,omitempty"`
}

// VirtualMap records, per requested name, whether it resolved as virtual.
type VirtualMap map[string]bool

// Resolution is the outcome of one bulk resolution pass. States[i]
// always belongs to Names[i].
type Resolution struct {
	Names   []string
	States  []PackageState
	Virtual VirtualMap
	// Multi is set when the request was a list, even a one-element list.
	Multi bool
}

func (r *Resolution) InstalledVersions() []Version {
	out := make([]Version, len(r.States))
	for i, s := range r.States {
		out[i] = s.Installed
	}
	return out
}

func (r *Resolution) CandidateVersions() []Version {
	out := make([]Version, len(r.States))
	for i, s := range r.States {
		out[i] = s.Candidate
	}
	return out
}

// InstalledVersion is the scalar form for single-name requests.
func (r *Resolution) InstalledVersion() Version {
	if len(r.States) == 0 {
		return None
	}
	return r.States[0].Installed
}

func (r *Resolution) CandidateVersion() Version {
	if len(r.States) == 0 {
		return None
	}
	return r.States[0].Candidate
}

// State returns the state resolved for name.
func (r *Resolution) State(name string) (PackageState, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.States[i], true
		}
	}
	return PackageState{}, false
}

// Target is the name commands should act on: the provider for a virtual
// name, otherwise the name itself.
func (r *Resolution) Target(name string) string {
	if s, ok := r.State(name); ok && s.Virtual && s.Provider != "" {
		return s.Provider
	}
	return name
}

func (r *Resolution) Targets(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = r.Target(n)
	}
	return out
}

// CheckPackageState resolves one requested name, following a virtual
// package to its provider when apt has no candidate for the name itself.
func (apm *AptPackageManager) CheckPackageState(ctx context.Context, name string) (PackageState, error) {
	state := PackageState{Name: name}

	installed, candidate, err := apm.QueryVersions(ctx, name)
	if err != nil {
		return PackageState{}, fmt.Errorf("querying versions of %s: %w", name, err)
	}
	state.Installed, state.Candidate = installed, candidate

	if !candidate.IsNone() {
		return state, nil
	}

	provider, ok, err := apm.ResolveVirtual(ctx, name)
	if err != nil {
		return PackageState{}, fmt.Errorf("resolving virtual package %s: %w", name, err)
	}
	if !ok {
		apm.log().Debug("Package has no candidate and no provider", "package", name)
		return state, nil
	}

	apm.log().Info("Resolved virtual package", "package", name, "provider", provider)
	state.Virtual = true
	state.Provider = provider
	state.Installed, state.Candidate, err = apm.QueryVersions(ctx, provider)
	if err != nil {
		return PackageState{}, fmt.Errorf("querying versions of %s (provider of %s): %w", provider, name, err)
	}
	return state, nil
}

// CheckAllPackagesState resolves names in order, one at a time. The first
// failure aborts the pass.
func (apm *AptPackageManager) CheckAllPackagesState(ctx context.Context, names []string, multi bool) (*Resolution, error) {
	res := &Resolution{
		Names:   append([]string(nil), names...),
		States:  make([]PackageState, len(names)),
		Virtual: make(VirtualMap, len(names)),
		Multi:   multi,
	}

	for i, name := range names {
		state, err := apm.CheckPackageState(ctx, name)
		if err != nil {
			return nil, err
		}
		res.States[i] = state
		if _, seen := res.Virtual[name]; !seen {
			res.Virtual[name] = state.Virtual
		}
	}

	return res, nil
}
