package packagemanager

import "context"

// StateResolver reports what is installed and what apt would install.
type StateResolver interface {
	QueryVersions(ctx context.Context, name string) (installed, candidate Version, err error)
	ResolveVirtual(ctx context.Context, name string) (provider string, ok bool, err error)
	CheckPackageState(ctx context.Context, name string) (PackageState, error)
	CheckAllPackagesState(ctx context.Context, names []string, multi bool) (*Resolution, error)
}

// ActionApplier changes the package set of a host. Each call is a single
// batched command; nothing is re-verified afterwards.
type ActionApplier interface {
	Install(ctx context.Context, names, versions []string, virtual VirtualMap) error
	Upgrade(ctx context.Context, names, versions []string, virtual VirtualMap) error
	Remove(ctx context.Context, names []string) error
	Purge(ctx context.Context, names []string) error
	Preseed(ctx context.Context, path string) error
	Reconfigure(ctx context.Context, name string) error
}

type PackageManager interface {
	StateResolver
	ActionApplier
}
