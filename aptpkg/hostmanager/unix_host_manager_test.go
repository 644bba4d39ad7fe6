package hostmanager

import (
	"context"
	"errors"
	"testing"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockCommandManager struct {
	Outputs map[string]string
	Err     error
}

func (m *MockCommandManager) getMockOutput(command string) cm.CommandResult {
	if output, exists := m.Outputs[command]; exists {
		return cm.CommandResult{STDOUT: output}
	}
	return cm.CommandResult{}
}

func (m *MockCommandManager) RunLocal(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.getMockOutput(config.Command), m.Err
}

func (m *MockCommandManager) RunRemote(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.getMockOutput(config.Command), m.Err
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.getMockOutput(config.Command), m.Err
}

const bookworm = `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
VERSION_CODENAME=bookworm
ID=debian
HOME_URL="https://www.debian.org/"
`

const mint = `NAME="Linux Mint"
ID=linuxmint
ID_LIKE="ubuntu debian"
VERSION_ID="21.2"
`

const fedora = `NAME="Fedora Linux"
ID=fedora
VERSION_ID=39
# comment=ignored
`

func TestInfo(t *testing.T) {
	mockCmd := &MockCommandManager{
		Outputs: map[string]string{
			"hostname": "test-hostname\n",
			"uname":    "6.1.0-13-amd64\n",
			"cat":      bookworm,
		},
	}
	hostManager := UnixHostManager{CommandManager: mockCmd}

	info, err := hostManager.Info(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "test-hostname", info.Hostname)
	assert.Equal(t, "6.1.0-13-amd64", info.KernelVersion)
	assert.Equal(t, "bookworm", info.OS.VersionCodename)
}

func TestInfoError(t *testing.T) {
	hostManager := UnixHostManager{CommandManager: &MockCommandManager{Err: errors.New("unreachable")}}

	_, err := hostManager.Info(context.Background())

	assert.EqualError(t, err, "unreachable")
}

func TestParseOSRelease(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   OSRelease
		debian bool
	}{
		{
			name:   "debian",
			report: bookworm,
			want: OSRelease{
				ID:              "debian",
				VersionID:       "12",
				VersionCodename: "bookworm",
				PrettyName:      "Debian GNU/Linux 12 (bookworm)",
			},
			debian: true,
		},
		{
			name:   "derivative",
			report: mint,
			want:   OSRelease{ID: "linuxmint", IDLike: []string{"ubuntu", "debian"}, VersionID: "21.2"},
			debian: true,
		},
		{
			name:   "fedora",
			report: fedora,
			want:   OSRelease{ID: "fedora", VersionID: "39"},
			debian: false,
		},
		{
			name:   "empty",
			report: "",
			want:   OSRelease{},
			debian: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOSRelease(tt.report)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.debian, got.IsDebianFamily())
		})
	}
}

func TestOSReleaseString(t *testing.T) {
	assert.Equal(t, "unknown", OSRelease{}.String())
	assert.Equal(t, "fedora", OSRelease{ID: "fedora"}.String())
	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", ParseOSRelease(bookworm).String())
}
