package packagemanager

import (
	"context"
	"errors"
	"testing"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func aptGet(args ...string) cm.CommandConfig {
	return cm.CommandConfig{
		Command: "apt-get",
		Args:    args,
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
	}
}

func TestInstallVirtualIsBare(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd)

	mockCmd.On("Run", aptGet("-q", "-y", "install", "foo=1.0", "bar")).Return("", nil).Once()

	err := apm.Install(context.Background(), []string{"foo", "bar"}, []string{"1.0", "2.0"}, VirtualMap{"foo": false, "bar": true})

	require.NoError(t, err)
	mockCmd.AssertExpectations(t)
	mockCmd.AssertNumberOfCalls(t, "Run", 1)
}

func TestInstallWithReleaseAndOptions(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd,
		WithDefaultRelease("bookworm-backports"),
		WithOptions(`--no-install-recommends  -o Dpkg::Options::=--force-confold`),
	)

	mockCmd.On("Run", aptGet(
		"-q", "-y",
		"-o", "APT::Default-Release=bookworm-backports",
		"--no-install-recommends", "-o", "Dpkg::Options::=--force-confold",
		"install", "vim=2:9.0",
	)).Return("", nil).Once()

	err := apm.Install(context.Background(), []string{"vim"}, []string{"2:9.0"}, nil)

	require.NoError(t, err)
	mockCmd.AssertExpectations(t)
}

func TestInstallSudo(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd, WithSudo(true))

	config := aptGet("-q", "-y", "install", "vim=1")
	config.Sudo = true
	mockCmd.On("Run", config).Return("", nil).Once()

	require.NoError(t, apm.Install(context.Background(), []string{"vim"}, []string{"1"}, VirtualMap{}))
	mockCmd.AssertExpectations(t)
}

func TestInstallEmptyVersionIsBare(t *testing.T) {
	tokens, err := installTokens([]string{"vim", "curl"}, []string{"", "7.88"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"vim", "curl=7.88"}, tokens)
}

func TestInstallMismatch(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd)

	err := apm.Install(context.Background(), []string{"foo", "bar"}, []string{"1.0"}, nil)

	assert.ErrorIs(t, err, ErrVersionMismatch)
	mockCmd.AssertNotCalled(t, "Run", mock.Anything)
}

func TestInstallNoPackages(t *testing.T) {
	apm := newTestManager(new(MockCommandManager))

	assert.ErrorIs(t, apm.Install(context.Background(), nil, nil, nil), ErrNoPackages)
	assert.ErrorIs(t, apm.Remove(context.Background(), nil), ErrNoPackages)
}

func TestUpgradeMatchesInstall(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd)

	mockCmd.On("Run", aptGet("-q", "-y", "install", "foo=1.1")).Return("", nil).Once()

	require.NoError(t, apm.Upgrade(context.Background(), []string{"foo"}, []string{"1.1"}, nil))
	mockCmd.AssertExpectations(t)
}

func TestRemoveAndPurge(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd, WithOptions("--auto-remove"))

	mockCmd.On("Run", aptGet("-q", "-y", "--auto-remove", "remove", "foo", "bar")).Return("", nil).Once()
	mockCmd.On("Run", aptGet("-q", "-y", "--auto-remove", "purge", "foo", "bar")).Return("", nil).Once()

	require.NoError(t, apm.Remove(context.Background(), []string{"foo", "bar"}))
	require.NoError(t, apm.Purge(context.Background(), []string{"foo", "bar"}))
	mockCmd.AssertExpectations(t)
}

func TestRemoveIgnoresDefaultRelease(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd, WithDefaultRelease("stable"))

	mockCmd.On("Run", aptGet("-q", "-y", "remove", "foo")).Return("", nil).Once()

	require.NoError(t, apm.Remove(context.Background(), []string{"foo"}))
	mockCmd.AssertExpectations(t)
}

func TestPreseedAndReconfigure(t *testing.T) {
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd)

	mockCmd.On("Run", cm.CommandConfig{
		Command: "debconf-set-selections",
		Args:    []string{"/var/cache/local/preseeding/postfix.seed"},
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
	}).Return("", nil).Once()
	mockCmd.On("Run", cm.CommandConfig{
		Command: "dpkg-reconfigure",
		Args:    []string{"postfix"},
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
	}).Return("", nil).Once()

	require.NoError(t, apm.Preseed(context.Background(), "/var/cache/local/preseeding/postfix.seed"))
	require.NoError(t, apm.Reconfigure(context.Background(), "postfix"))
	mockCmd.AssertExpectations(t)
}

func TestActionErrorsPropagate(t *testing.T) {
	failed := &cm.CommandError{Command: "apt-get", ExitCode: 100, Stderr: "E: Unable to locate package foo"}
	mockCmd := new(MockCommandManager)
	apm := newTestManager(mockCmd)

	mockCmd.On("Run", mock.Anything).Return("", failed)

	err := apm.Install(context.Background(), []string{"foo"}, []string{"1"}, nil)
	assert.True(t, errors.Is(err, cm.ErrCommandFailed))
	assert.Same(t, failed, err)

	err = apm.Purge(context.Background(), []string{"foo"})
	assert.ErrorIs(t, err, cm.ErrCommandFailed)
}
