package hostmanager

import "context"

// OSRelease holds the fields of /etc/os-release that matter for apt hosts.
type OSRelease struct {
	ID              string   `json:"id"`
	IDLike          []string `json:"idLike,omitempty"`
	VersionID       string   `json:"versionId,omitempty"`
	VersionCodename string   `json:"versionCodename,omitempty"`
	PrettyName      string   `json:"prettyName,omitempty"`
}

type HostInfo struct {
	Hostname      string    `json:"hostname"`
	KernelVersion string    `json:"kernelVersion"`
	OS            OSRelease `json:"os"`
}

// HostManager encompasses the host facts an apt run depends on.
type HostManager interface {
	Info(ctx context.Context) (HostInfo, error)
	Hostname(ctx context.Context) (string, error)
	OSRelease(ctx context.Context) (OSRelease, error)
}
