// Package workspace provides the scoped temporary directory a document
// comparison renders into, and the temp-then-rename write used for every
// output artifact.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Workspace is a private temporary directory. Close removes it and
// everything inside.
type Workspace struct {
	dir    string
	closed bool
}

// New creates a workspace under the system temp directory.
func New(prefix string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Create opens a new file inside the workspace.
func (w *Workspace) Create(name string) (*os.File, error) {
	if w.closed {
		return nil, errors.New("workspace already closed")
	}
	return os.Create(w.Path(name))
}

// Close removes the workspace. It is safe to call more than once.
func (w *Workspace) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return os.RemoveAll(w.dir)
}

// WriteFileAtomic streams write into a temp file next to path and renames
// it into place only when write succeeds. On failure path is untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}
