package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// writeAtomic writes a file with the temp-file, fsync, rename pattern so a
// crash mid-write leaves the previous file intact. Failures wrap ErrIO.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", types.ErrIO, dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", types.ErrIO, err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s %s: %w", types.ErrIO, step, path, err)
	}

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		return fail("writing", err)
	}
	if err := w.Flush(); err != nil {
		return fail("flushing", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %w", types.ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %w", types.ErrIO, err)
	}
	return nil
}
