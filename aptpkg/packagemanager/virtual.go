package packagemanager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
)

const reverseProvidesHeader = "Reverse Provides:"

var ErrAmbiguousVirtualPackage = errors.New("ambiguous virtual package")

// AmbiguousVirtualPackageError is returned when a virtual package has more
// than one provider; the caller must request a concrete package instead.
type AmbiguousVirtualPackageError struct {
	Name      string
	Providers []string
}

func (e *AmbiguousVirtualPackageError) Error() string {
	return fmt.Sprintf("%s is a virtual package provided by %d packages (%s), you must explicitly select one",
		e.Name, len(e.Providers), strings.Join(e.Providers, ", "))
}

func (e *AmbiguousVirtualPackageError) Is(target error) bool {
	return target == ErrAmbiguousVirtualPackage
}

// parseReverseProvides returns the distinct provider names listed after
// the last "Reverse Provides:" header of an `apt-cache showpkg` report, and
// whether the header was present at all.
func parseReverseProvides(report string) ([]string, bool) {
	lines := strings.Split(report, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), reverseProvidesHeader) {
			start = i + 1
		}
	}
	if start < 0 {
		return nil, false
	}

	seen := map[string]struct{}{}
	for _, line := range lines[start:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		seen[fields[0]] = struct{}{}
	}

	providers := make([]string, 0, len(seen))
	for p := range seen {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers, true
}

// ResolveVirtual maps a virtual package name to its single provider.
// ok is false when the name is neither virtual nor known to apt.
func (apm *AptPackageManager) ResolveVirtual(ctx context.Context, name string) (string, bool, error) {
	output, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-cache",
		Args:    []string{"showpkg", name},
		Env:     []string{noninteractiveEnv},
		Timeout: apm.Timeout,
	})
	if err != nil {
		return "", false, err
	}

	providers, found := parseReverseProvides(output.STDOUT)
	switch {
	case !found || len(providers) == 0:
		return "", false, nil
	case len(providers) > 1:
		return "", false, &AmbiguousVirtualPackageError{Name: name, Providers: providers}
	default:
		return providers[0], true, nil
	}
}
