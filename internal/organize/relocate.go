// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package organize

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// Destination returns the directory a file with label l is moved into.
func Destination(root string, l types.Label) string {
	return filepath.Join(append([]string{root}, l.Segments()...)...)
}

// Relocate moves source into the folder for label under root and returns the
// new path. It never overwrites: an existing destination is reported as
// fs.ErrExist.
func Relocate(root, source string, label types.Label) (string, error) {
	dir := Destination(root, label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	dest := filepath.Join(dir, filepath.Base(source))
	err := linkNoReplace(source, dest)
	switch {
	case err == nil:
		if err := os.Remove(source); err != nil {
			return "", fmt.Errorf("removing %s after link: %w", source, err)
		}
	case errors.Is(err, syscall.EXDEV):
		if err := copyThenRemove(source, dest); err != nil {
			return "", err
		}
	case linkUnsupported(err):
		if err := renameNoReplace(source, dest); err != nil {
			return "", err
		}
	default:
		return "", err
	}
	return dest, nil
}

// linkNoReplace hard-links dest to source. link(2) fails with EEXIST when
// dest is present, so the existence check and the placement are one step.
func linkNoReplace(source, dest string) error {
	if err := os.Link(source, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("destination %s: %w", dest, fs.ErrExist)
		}
		return fmt.Errorf("linking %s: %w", source, err)
	}
	return nil
}

// linkUnsupported reports whether err means the filesystem cannot hold hard
// links (FAT and exFAT drives, some network mounts).
func linkUnsupported(err error) bool {
	return errors.Is(err, errors.ErrUnsupported) ||
		errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.ENOTSUP) ||
		errors.Is(err, syscall.EOPNOTSUPP)
}

// renameNoReplace is the fallback for filesystems without hard links. A file
// created at dest between the check and the rename would be replaced.
func renameNoReplace(source, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("destination %s: %w", dest, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking destination %s: %w", dest, err)
	}
	if err := os.Rename(source, dest); err != nil {
		return fmt.Errorf("renaming %s: %w", source, err)
	}
	return nil
}

// copyThenRemove moves a file across filesystems. The copy goes to a
// temporary file beside dest and is linked into place once complete.
func copyThenRemove(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".relocate-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		return fmt.Errorf("copying %s: %w", source, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := linkNoReplace(tmpPath, dest); err != nil {
		if !linkUnsupported(err) {
			return err
		}
		if err := renameNoReplace(tmpPath, dest); err != nil {
			return err
		}
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("removing %s after copy: %w", source, err)
	}
	return nil
}

// EnsureLayout creates the directory for every category and subcategory in
// tax, plus the fallback directory.
func EnsureLayout(root string, tax types.Taxonomy, fallback string) error {
	dirs := []string{filepath.Join(root, fallback)}
	for _, c := range tax.Categories {
		dirs = append(dirs, filepath.Join(root, c.Name))
		for _, s := range c.Subcategories {
			dirs = append(dirs, filepath.Join(root, c.Name, s))
		}
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
