package packagemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReverseProvides(t *testing.T) {
	tests := []struct {
		name      string
		report    string
		want      []string
		wantFound bool
	}{
		{
			name:      "no header",
			report:    "Package: vim\nVersions: \n",
			wantFound: false,
		},
		{
			name:      "empty section",
			report:    "Package: vim\nReverse Provides: \n",
			want:      []string{},
			wantFound: true,
		},
		{
			name:      "single provider",
			report:    "Reverse Provides: \npostfix 3.7.6-0+deb12u2 (= )\n",
			want:      []string{"postfix"},
			wantFound: true,
		},
		{
			name:      "duplicates with extra columns collapse",
			report:    "Reverse Provides: \nlibc6 2.36 amd64\nlibc6 2.36 i386\n\n",
			want:      []string{"libc6"},
			wantFound: true,
		},
		{
			name:      "last header wins",
			report:    "Reverse Provides: \nold-provider 1\nReverse Provides: \nnew-provider 2\n",
			want:      []string{"new-provider"},
			wantFound: true,
		},
		{
			name:      "several providers",
			report:    "Reverse Provides: \npostfix 1\nexim4 2\n",
			want:      []string{"exim4", "postfix"},
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := parseReverseProvides(tt.report)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveVirtualSingleProvider(t *testing.T) {
	fake := &FakeCommandManager{Outputs: map[string]string{
		"apt-cache showpkg awk": showpkgReport("awk", "mawk"),
	}}
	apm := newTestManager(fake)

	provider, ok, err := apm.ResolveVirtual(context.Background(), "awk")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "mawk", provider)
}

func TestResolveVirtualAmbiguous(t *testing.T) {
	fake := &FakeCommandManager{Outputs: map[string]string{
		"apt-cache showpkg mail-transport-agent": "Package: mail-transport-agent\nReverse Provides: \npostfix 3.7.6\nexim4 4.96\n",
	}}
	apm := newTestManager(fake)

	_, ok, err := apm.ResolveVirtual(context.Background(), "mail-transport-agent")

	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrAmbiguousVirtualPackage))

	var ambiguous *AmbiguousVirtualPackageError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "mail-transport-agent", ambiguous.Name)
	assert.Equal(t, []string{"exim4", "postfix"}, ambiguous.Providers)
	assert.Contains(t, err.Error(), "provided by 2 packages")
}

func TestResolveVirtualNotFound(t *testing.T) {
	fake := &FakeCommandManager{Outputs: map[string]string{}}
	apm := newTestManager(fake)

	provider, ok, err := apm.ResolveVirtual(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, provider)
}

func TestResolveVirtualCommandError(t *testing.T) {
	boom := errors.New("boom")
	fake := &FakeCommandManager{Errors: map[string]error{"apt-cache showpkg awk": boom}}
	apm := newTestManager(fake)

	_, _, err := apm.ResolveVirtual(context.Background(), "awk")

	assert.ErrorIs(t, err, boom)
}
