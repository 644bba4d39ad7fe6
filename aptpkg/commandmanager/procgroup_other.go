//go:build !unix

package commandmanager

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
