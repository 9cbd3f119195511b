// Package repo persists diff sources and results
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	perr "diffjar/internal/platform/errors"
	dom "diffjar/internal/services/diff/domain"
)

const diffSuffix = "diff"

// Disk keeps every artifact as a flat file under one directory
// N.left and N.right hold raw bytes, N.diff holds the JSON result
type Disk struct {
	dir string
}

var _ dom.Storage = (*Disk)(nil)

// NewDisk creates dir when missing
func NewDisk(dir string) (*Disk, error) {
	if dir == "" {
		return nil, perr.InvalidArgf("disk storage: empty data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "disk storage: create %s", dir)
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the data directory
func (d *Disk) Dir() string { return d.dir }

func (d *Disk) path(id dom.DiffID, suffix string) string {
	return filepath.Join(d.dir, id.String()+"."+suffix)
}

// SaveSource writes the raw bytes for one side, replacing any previous copy
func (d *Disk) SaveSource(ctx context.Context, id dom.DiffID, src dom.SourceContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.write(d.path(id, src.Side.String()), src.Data)
}

// LoadSource reads one side, ok is false when it was never saved
func (d *Disk) LoadSource(ctx context.Context, id dom.DiffID, side dom.SourceSide) (dom.SourceContent, bool, error) {
	if err := ctx.Err(); err != nil {
		return dom.SourceContent{}, false, err
	}
	b, err := os.ReadFile(d.path(id, side.String()))
	if errors.Is(err, fs.ErrNotExist) {
		return dom.SourceContent{}, false, nil
	}
	if err != nil {
		return dom.SourceContent{}, false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s source %s", side, id)
	}
	return dom.SourceContent{Data: b, Side: side}, true, nil
}

// SaveDiff writes the JSON result
func (d *Disk) SaveDiff(ctx context.Context, id dom.DiffID, diff dom.DifferenceContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(diff)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode diff %s", id)
	}
	return d.write(d.path(id, diffSuffix), b)
}

// LoadDiff returns the result when present, otherwise derives readiness from the sources
func (d *Disk) LoadDiff(ctx context.Context, id dom.DiffID) (*dom.DifferenceContent, dom.Readiness, error) {
	if err := ctx.Err(); err != nil {
		return nil, dom.NotFound, err
	}
	b, err := os.ReadFile(d.path(id, diffSuffix))
	switch {
	case err == nil:
		var out dom.DifferenceContent
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, dom.NotFound, perr.Wrapf(err, perr.ErrorCodeJSON, "decode diff %s", id)
		}
		return &out, dom.Ready, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, dom.NotFound, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read diff %s", id)
	}

	for _, side := range []dom.SourceSide{dom.SideLeft, dom.SideRight} {
		ok, err := d.exists(d.path(id, side.String()))
		if err != nil {
			return nil, dom.NotFound, perr.Wrapf(err, perr.ErrorCodeUnavailable, "stat %s source %s", side, id)
		}
		if ok {
			return nil, dom.NotReady, nil
		}
	}
	return nil, dom.NotFound, nil
}

func (d *Disk) exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// write goes through a temp file so readers never see a partial artifact
func (d *Disk) write(p string, b []byte) error {
	f, err := os.CreateTemp(d.dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "create temp for %s", filepath.Base(p))
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write %s", filepath.Base(p))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "close %s", filepath.Base(p))
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rename %s", filepath.Base(p))
	}
	return nil
}

// Ping reports whether the data directory is still usable
func (d *Disk) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fi, err := os.Stat(d.dir)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "stat %s", d.dir)
	}
	if !fi.IsDir() {
		return perr.Unavailablef("%s is not a directory", d.dir)
	}
	return nil
}
