package filemanager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
)

// File describes basic file attributes.
type File struct {
	Path    string
	Type    string // as reported by stat %F, e.g. "regular file"
	Regular bool
}

// FileManager inspects files on the managed host, such as debconf
// response files that must exist before preseeding.
type FileManager interface {
	Stat(ctx context.Context, path string) (File, error)
}

type UnixFileManager struct {
	CommandManager cm.CommandManager
}

// Stat returns an error wrapping fs.ErrNotExist when stat(1) reports that
// path does not exist. Other stat failures, permission errors included,
// keep their CommandError.
func (ufm *UnixFileManager) Stat(ctx context.Context, path string) (File, error) {
	result, err := ufm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "stat",
		Args:    []string{"-L", "-c", "%F", path},
	})
	if err != nil {
		var cmdErr *cm.CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "No such file") {
			return File{}, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
		}
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}

	fileType := strings.TrimSpace(result.STDOUT)
	if fileType == "" || strings.Contains(fileType, "\n") {
		return File{}, fmt.Errorf("unexpected stat output format: %q", result.STDOUT)
	}

	return File{
		Path:    path,
		Type:    fileType,
		Regular: strings.HasPrefix(fileType, "regular"),
	}, nil
}

// RequireRegularFile fails unless path is a regular file on the host.
func RequireRegularFile(ctx context.Context, fm FileManager, path string) error {
	file, err := fm.Stat(ctx, path)
	if err != nil {
		return err
	}
	if !file.Regular {
		return fmt.Errorf("%s is not a regular file (%s)", path, file.Type)
	}
	return nil
}
