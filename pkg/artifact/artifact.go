// Package artifact manages the temporary files rendered reports live in
// between rendering and delivery.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact is a rendered report on disk. It is created fresh per render and
// must be consumed with Serve or Deliver, or discarded with Remove.
type Artifact struct {
	name string
	path string
}

// Create writes data to a new temporary file in dir. name is the file name
// the consumer should see; its extension is kept on the temporary file.
func Create(dir, name string, data []byte) (*Artifact, error) {
	f, err := os.CreateTemp(dir, "audit-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	a := &Artifact{name: name, path: f.Name()}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, errors.Join(fmt.Errorf("failed to write artifact: %w", err), a.Remove())
	}
	if err := f.Close(); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to close artifact: %w", err), a.Remove())
	}
	return a, nil
}

// Name returns the consumer-facing file name.
func (a *Artifact) Name() string {
	return a.name
}

// Path returns the temporary file location.
func (a *Artifact) Path() string {
	return a.path
}

// Serve streams the artifact to w and then deletes it. The delete runs
// whether or not the copy succeeded.
func (a *Artifact) Serve(w io.Writer) (err error) {
	defer func() {
		if rmErr := a.Remove(); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}()

	f, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to serve artifact %s: %w", a.name, err)
	}
	return nil
}

// Deliver copies the artifact to dst and deletes the temporary file.
func (a *Artifact) Deliver(dst string) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to create %s: %w", dst, err), a.Remove())
	}

	serveErr := a.Serve(out)
	if err := out.Close(); err != nil && serveErr == nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return serveErr
}

// Remove deletes the temporary file. Removing twice is not an error.
func (a *Artifact) Remove() error {
	if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}
