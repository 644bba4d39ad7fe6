package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/steelcutops/aptpkg/aptpkg/host"
	"github.com/steelcutops/aptpkg/aptpkg/hostmanager"
	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
	"github.com/steelcutops/aptpkg/aptpkg/resource"
)

type HostStatus struct {
	Hostname string               `json:"hostname"`
	Facts    hostmanager.HostInfo `json:"facts"`
	Packages []pm.PackageState    `json:"packages"`
}

var outMu sync.Mutex

// printf serializes output from concurrently processed hosts.
func printf(w io.Writer, format string, args ...interface{}) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(w, format, args...)
}

func runStatus(cmd *cobra.Command, args []string) error {
	p := newPackage(args)
	if err := p.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	hostGroup, err := initializeHosts(ctx, f)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var statuses []HostStatus
	err = hostGroup.Process(ctx, func(ctx context.Context, h *host.Host) error {
		facts, err := h.Info(ctx)
		if err != nil {
			return fmt.Errorf("gathering facts of %s: %w", h, err)
		}
		current, err := resource.NewProvider(p, h.PackageManager, log).LoadCurrentResource(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, HostStatus{Hostname: h.Hostname, Facts: facts, Packages: current.States()})
		return nil
	}, f.Concurrency)

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Hostname < statuses[j].Hostname })
	if printErr := printStatus(cmd.OutOrStdout(), statuses, statusJSON); printErr != nil {
		return printErr
	}
	return err
}

func printStatus(w io.Writer, statuses []HostStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tPACKAGE\tINSTALLED\tCANDIDATE\tPROVIDER")
	for _, s := range statuses {
		for _, state := range s.Packages {
			provider := "-"
			if state.Virtual {
				provider = state.Provider
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Hostname, state.Name, state.Installed, state.Candidate, provider)
		}
	}
	return tw.Flush()
}
