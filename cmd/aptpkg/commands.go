package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/steelcutops/aptpkg/aptpkg/filemanager"
	"github.com/steelcutops/aptpkg/aptpkg/host"
	"github.com/steelcutops/aptpkg/aptpkg/resource"
)

var (
	versions     []string
	responseFile string
	statusJSON   bool
)

var statusCmd = &cobra.Command{
	Use:   "status <package>...",
	Short: "Show installed and candidate versions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStatus,
}

var installCmd = newActionCmd(resource.ActionInstall, "install <package>...", "Install packages that are missing or not at the pinned version")
var upgradeCmd = newActionCmd(resource.ActionUpgrade, "upgrade <package>...", "Upgrade packages to their candidate or pinned version")
var removeCmd = newActionCmd(resource.ActionRemove, "remove <package>...", "Remove installed packages")
var purgeCmd = newActionCmd(resource.ActionPurge, "purge <package>...", "Remove installed packages and their configuration")
var reconfigureCmd = newActionCmd(resource.ActionReconfig, "reconfigure <package>...", "Run dpkg-reconfigure for installed packages")

var preseedCmd = &cobra.Command{
	Use:   "preseed <response-file>",
	Short: "Load a debconf response file with debconf-set-selections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		hostGroup, err := initializeHosts(ctx, f)
		if err != nil {
			return err
		}
		return hostGroup.Process(ctx, func(ctx context.Context, h *host.Host) error {
			if err := filemanager.RequireRegularFile(ctx, h.FileManager, args[0]); err != nil {
				return err
			}
			return h.PackageManager.Preseed(ctx, args[0])
		}, f.Concurrency)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print JSON instead of a table")

	for _, cmd := range []*cobra.Command{installCmd, upgradeCmd} {
		cmd.Flags().StringArrayVar(&versions, "version", nil, "Version for the package at the same position (repeatable)")
	}
	for _, cmd := range []*cobra.Command{installCmd, upgradeCmd, reconfigureCmd} {
		cmd.Flags().StringVar(&responseFile, "response-file", "", "debconf response file preseeded before the action")
	}
}

func newActionCmd(action resource.Action, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, action, newPackage(args))
		},
	}
}

// newPackage builds the requested resource from the command line. A list is
// requested whenever more than one name is given.
func newPackage(names []string) *resource.Package {
	p := resource.NewPackage(names...)
	p.Versions = versions
	p.Source = f.Source
	p.ResponseFile = responseFile
	return p
}

func runAction(cmd *cobra.Command, action resource.Action, p *resource.Package) error {
	// Reject what apt cannot do before connecting anywhere.
	if err := p.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	hostGroup, err := initializeHosts(ctx, f)
	if err != nil {
		return err
	}

	return hostGroup.Process(ctx, func(ctx context.Context, h *host.Host) error {
		if p.ResponseFile != "" {
			if err := filemanager.RequireRegularFile(ctx, h.FileManager, p.ResponseFile); err != nil {
				return err
			}
		}
		provider := resource.NewProvider(p, h.PackageManager, log)
		changed, err := provider.Run(ctx, action)
		if err != nil {
			return err
		}
		if changed {
			log.Info("Packages updated", "host", h.Hostname, "action", string(action), "package", p.String())
			printf(cmd.OutOrStdout(), "%s: %s %s\n", h.Hostname, action, p)
		} else {
			log.Debug("Packages already in desired state", "host", h.Hostname, "action", string(action), "package", p.String())
		}
		return nil
	}, f.Concurrency)
}
