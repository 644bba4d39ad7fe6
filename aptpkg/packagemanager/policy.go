package packagemanager

import (
	"context"
	"regexp"
	"strings"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
)

var (
	installedLineRe = regexp.MustCompile(`^\s{2}Installed: (.+)$`)
	candidateLineRe = regexp.MustCompile(`^\s{2}Candidate: (.+)$`)
)

type policyLineKind int

const (
	otherLine policyLineKind = iota
	installedLine
	candidateLine
)

type policyLine struct {
	kind    policyLineKind
	version Version
}

func classifyPolicyLine(line string) policyLine {
	line = strings.TrimRight(line, "\r")
	if m := installedLineRe.FindStringSubmatch(line); m != nil {
		return policyLine{kind: installedLine, version: ParseVersion(m[1])}
	}
	if m := candidateLineRe.FindStringSubmatch(line); m != nil {
		return policyLine{kind: candidateLine, version: ParseVersion(m[1])}
	}
	return policyLine{kind: otherLine}
}

// parsePolicy folds an `apt-cache policy` report into the installed and
// candidate versions. Later lines override earlier ones.
func parsePolicy(report string) (installed, candidate Version) {
	for _, line := range strings.Split(report, "\n") {
		l := classifyPolicyLine(line)
		switch l.kind {
		case installedLine:
			installed = l.version
		case candidateLine:
			candidate = l.version
		}
	}
	return installed, candidate
}

// QueryVersions asks apt for the installed and candidate versions of a
// concrete package. An unknown package yields two None versions.
func (apm *AptPackageManager) QueryVersions(ctx context.Context, name string) (Version, Version, error) {
	args := append(apm.defaultReleaseArgs(), "policy", name)
	output, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-cache",
		Args:    args,
		Env:     []string{noninteractiveEnv},
		Timeout: apm.Timeout,
	})
	if err != nil {
		return None, None, err
	}

	installed, candidate := parsePolicy(output.STDOUT)
	apm.log().Debug("Queried package policy", "package", name, "installed", installed.String(), "candidate", candidate.String())
	return installed, candidate, nil
}
