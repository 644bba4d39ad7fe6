package hostgroup

import (
	"context"
	"fmt"
	"sort"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/steelcutops/aptpkg/aptpkg/host"
	"github.com/steelcutops/aptpkg/logger"
)

// DefaultConcurrency caps simultaneous host connections.
const DefaultConcurrency = 10

type HostGroup struct {
	sync.RWMutex
	Hosts  map[string]*host.Host
	Logger logger.Logger
}

// NewHostGroup creates a new HostGroup with the given hosts.
func NewHostGroup(hosts ...*host.Host) *HostGroup {
	hostMap := make(map[string]*host.Host)
	for _, h := range hosts {
		hostMap[h.Hostname] = h
	}
	return &HostGroup{Hosts: hostMap}
}

// AddHost adds a host to the HostGroup.
func (hg *HostGroup) AddHost(h *host.Host) {
	hg.Lock()
	defer hg.Unlock()
	hg.Hosts[h.Hostname] = h
}

// RemoveHost removes a host from the HostGroup by its hostname.
func (hg *HostGroup) RemoveHost(hostname string) {
	hg.Lock()
	defer hg.Unlock()
	delete(hg.Hosts, hostname)
}

// HasHost checks if a host with the given hostname exists in the HostGroup.
func (hg *HostGroup) HasHost(hostname string) bool {
	hg.RLock()
	defer hg.RUnlock()
	_, exists := hg.Hosts[hostname]
	return exists
}

// Hostnames returns the member hostnames in sorted order.
func (hg *HostGroup) Hostnames() []string {
	hg.RLock()
	defer hg.RUnlock()
	names := make([]string, 0, len(hg.Hosts))
	for name := range hg.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (hg *HostGroup) Len() int {
	hg.RLock()
	defer hg.RUnlock()
	return len(hg.Hosts)
}

// Process runs action on every host with at most maxConcurrency running at
// once. Failures do not stop other hosts; they are returned together as a
// *multierror.Error.
func (hg *HostGroup) Process(ctx context.Context, action func(ctx context.Context, h *host.Host) error, maxConcurrency int) error {
	if maxConcurrency < 1 {
		maxConcurrency = DefaultConcurrency
	}

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	hg.RLock()
	errCh := make(chan error, len(hg.Hosts))
	for _, hst := range hg.Hosts {
		wg.Add(1)
		go func(h *host.Host) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errCh <- fmt.Errorf("error while processing host %s: %w", h.Hostname, ctx.Err())
				return
			}
			defer func() { <-sem }()

			if err := action(ctx, h); err != nil {
				errCh <- fmt.Errorf("error while processing host %s: %w", h.Hostname, err)
			}
		}(hst)
	}
	hg.RUnlock()

	wg.Wait()
	close(errCh)

	var result *multierror.Error
	for err := range errCh {
		result = multierror.Append(result, err)
	}

	if result != nil {
		for _, err := range result.Errors {
			hg.log().Error("Host processing error", "error", err)
		}
		return result
	}

	return nil
}

func (hg *HostGroup) log() logger.Logger {
	if hg.Logger != nil {
		return hg.Logger
	}
	return logger.Default()
}
