// Package fileio provides crash-safe file replacement.
//
// Files are written to a temporary sibling of the destination, synced and
// renamed over it, so a reader never observes a partially written file.
package fileio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	bufSize  = 64 * 1024
	filePerm = 0o644
	dirPerm  = 0o755
)

// ErrClosed is returned when a Pending file is used after Commit or Abort.
var ErrClosed = errors.New("pending file already closed")

// Pending is a file being written next to its destination. Nothing is visible
// at the destination until Commit succeeds.
type Pending struct {
	dest string
	tmp  *os.File
	bw   *bufio.Writer
	done bool
}

// Create starts a pending write of dest. The parent directory is created if
// needed. The new file keeps the permissions of an existing dest.
func Create(dest string) (*Pending, error) {
	perm := os.FileMode(filePerm)
	if info, err := os.Stat(dest); err == nil {
		perm = info.Mode().Perm()
	}
	return create(dest, perm)
}

func create(dest string, perm os.FileMode) (*Pending, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(dest)+"-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	return &Pending{dest: dest, tmp: tmp, bw: bufio.NewWriterSize(tmp, bufSize)}, nil
}

// Write implements io.Writer.
func (p *Pending) Write(b []byte) (int, error) {
	if p.done {
		return 0, ErrClosed
	}
	return p.bw.Write(b)
}

// Commit flushes, syncs and renames the temporary file over the destination.
// On error the temporary file is removed and the destination is untouched.
func (p *Pending) Commit() error {
	if p.done {
		return ErrClosed
	}
	p.done = true
	tmpPath := p.tmp.Name()

	if err := p.bw.Flush(); err != nil {
		_ = p.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("flush %s: %w", p.dest, err)
	}
	if err := p.tmp.Sync(); err != nil {
		_ = p.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", p.dest, err)
	}
	if err := p.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", p.dest, err)
	}
	if err := os.Rename(tmpPath, p.dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", p.dest, err)
	}
	_ = syncDir(filepath.Dir(p.dest))
	return nil
}

// Abort discards the pending write. It is safe to call after Commit.
func (p *Pending) Abort() {
	if p.done {
		return
	}
	p.done = true
	_ = p.tmp.Close()
	_ = os.Remove(p.tmp.Name())
}

// WriteAtomic replaces dest with the contents of r.
func WriteAtomic(ctx context.Context, dest string, r io.Reader) error {
	p, err := Create(dest)
	if err != nil {
		return err
	}
	return fill(ctx, p, r)
}

func fill(ctx context.Context, p *Pending, r io.Reader) error {
	if _, err := io.Copy(p, Reader(ctx, r)); err != nil {
		p.Abort()
		return fmt.Errorf("write %s: %w", p.dest, err)
	}
	return p.Commit()
}

// CopyIfAbsent copies src to dest unless dest already exists. The copy gets
// the permissions of src. It reports whether a copy was made.
func CopyIfAbsent(ctx context.Context, src, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", dest, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}
	p, err := create(dest, info.Mode().Perm())
	if err != nil {
		return false, err
	}
	if err := fill(ctx, p, f); err != nil {
		return false, err
	}
	return true, nil
}

// Reader wraps r so that every Read fails once ctx is done.
func Reader(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}
	return cr.r.Read(p)
}
