package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

const defaultFilePerm os.FileMode = 0o644

// FileSink writes the payload to a file, atomically.
// The payload goes to a temporary file in the destination directory which is
// synced, closed and renamed over the destination. On any failure the
// temporary file is removed and the destination is left as it was.
type FileSink struct {
	path string
	perm os.FileMode
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string) (*FileSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "output path")
	}

	return &FileSink{path: path, perm: defaultFilePerm}, nil
}

// Path returns the destination of the sink.
func (s *FileSink) Path() string {
	return s.path
}

// Write implements Sink.
func (s *FileSink) Write(ctx context.Context, payload []byte) (err error) {
	err = ctx.Err()
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "write %s: %v", s.path, err)
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "create temporary file for %s: %v", s.path, err)
	}

	closed := false

	defer func() {
		if err == nil {
			return
		}

		if !closed {
			_ = tmp.Close()
		}

		_ = os.Remove(tmp.Name())
	}()

	_, err = tmp.Write(payload)
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "write %s: %v", tmp.Name(), err)
	}

	err = tmp.Chmod(s.perm)
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "chmod %s: %v", tmp.Name(), err)
	}

	err = tmp.Sync()
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "sync %s: %v", tmp.Name(), err)
	}

	closed = true

	err = tmp.Close()
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "close %s: %v", tmp.Name(), err)
	}

	err = ctx.Err()
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "write %s: %v", s.path, err)
	}

	err = os.Rename(tmp.Name(), s.path)
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "rename %s to %s: %v", tmp.Name(), s.path, err)
	}

	return nil
}
