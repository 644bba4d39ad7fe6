// Package config loads the host inventory and apt defaults from an INI
// file. The [apt] section holds defaults; every other section is a host
// group whose values are hostnames.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
	"gopkg.in/ini.v1"
)

const aptSection = "apt"

type Apt struct {
	DefaultRelease string        `ini:"default_release"`
	Options        string        `ini:"options"`
	Timeout        time.Duration `ini:"timeout"`
}

// PackageManagerOptions turns the settings into AptPackageManager options.
func (a Apt) PackageManagerOptions() []pm.Option {
	var options []pm.Option
	if a.DefaultRelease != "" {
		options = append(options, pm.WithDefaultRelease(a.DefaultRelease))
	}
	if a.Options != "" {
		options = append(options, pm.WithOptions(a.Options))
	}
	if a.Timeout > 0 {
		options = append(options, pm.WithTimeout(a.Timeout))
	}
	return options
}

type Config struct {
	Apt    Apt
	Groups map[string][]string
}

func Default() *Config {
	return &Config{
		Apt:    Apt{Timeout: cm.DefaultTimeout},
		Groups: map[string][]string{},
	}
}

// Load reads path. Keys in host group sections are labels only.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg := Default()
	if file.HasSection(aptSection) {
		if err := file.Section(aptSection).StrictMapTo(&cfg.Apt); err != nil {
			return nil, fmt.Errorf("reading [%s] in %s: %w", aptSection, path, err)
		}
	}

	for _, section := range file.Sections() {
		name := section.Name()
		if name == aptSection {
			continue
		}
		for _, key := range section.Keys() {
			hostname := strings.TrimSpace(key.String())
			if hostname == "" {
				continue
			}
			cfg.Groups[name] = append(cfg.Groups[name], hostname)
		}
	}

	return cfg, nil
}

// Hostnames lists every host of every group once, sorted.
func (c *Config) Hostnames() []string {
	seen := map[string]bool{}
	var hostnames []string
	for _, hosts := range c.Groups {
		for _, h := range hosts {
			if !seen[h] {
				seen[h] = true
				hostnames = append(hostnames, h)
			}
		}
	}
	sort.Strings(hostnames)
	return hostnames
}
