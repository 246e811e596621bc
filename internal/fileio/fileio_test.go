package fileio

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPendingCommit(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "out.txt")

	p, err := Create(dest)
	require.NoError(t, err)
	_, err = io.WriteString(p, "a\n")
	require.NoError(t, err)
	_, err = p.Write([]byte("b\n"))
	require.NoError(t, err)

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "destination visible before commit")

	require.NoError(t, p.Commit())
	assert.Equal(t, "a\nb\n", readFile(t, dest))
	assert.Equal(t, []string{"out.txt"}, dirEntries(t, filepath.Dir(dest)))

	assert.ErrorIs(t, p.Commit(), ErrClosed)
	_, err = p.Write([]byte("c\n"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPendingAbortKeepsDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "trace.log")
	require.NoError(t, os.WriteFile(dest, []byte("original\n"), 0o644))

	p, err := Create(dest)
	require.NoError(t, err)
	_, err = io.WriteString(p, "partial\n")
	require.NoError(t, err)
	p.Abort()
	p.Abort()

	assert.Equal(t, "original\n", readFile(t, dest))
	assert.Equal(t, []string{"trace.log"}, dirEntries(t, dir))
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	require.NoError(t, WriteAtomic(context.Background(), dest, strings.NewReader("new")))
	assert.Equal(t, "new", readFile(t, dest))
}

func TestWriteAtomicCancelled(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WriteAtomic(ctx, dest, strings.NewReader("new"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "old", readFile(t, dest))
	assert.Equal(t, []string{"out.txt"}, dirEntries(t, dir))
}

func TestCopyIfAbsent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "trace.log")
	dest := filepath.Join(dir, "backup", "trace.log")
	require.NoError(t, os.WriteFile(src, []byte("first"), 0o644))

	copied, err := CopyIfAbsent(context.Background(), src, dest)
	require.NoError(t, err)
	assert.True(t, copied)
	assert.Equal(t, "first", readFile(t, dest))

	require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
	copied, err = CopyIfAbsent(context.Background(), src, dest)
	require.NoError(t, err)
	assert.False(t, copied)
	assert.Equal(t, "first", readFile(t, dest))
}

func TestCopyIfAbsentMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := CopyIfAbsent(context.Background(), filepath.Join(dir, "nope"), filepath.Join(dir, "b"))
	assert.Error(t, err)
}

func TestReplaceKeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits")
	}
	dir := t.TempDir()
	private := filepath.Join(dir, "private.log")
	require.NoError(t, os.WriteFile(private, []byte("secret"), 0o600))
	require.NoError(t, os.Chmod(private, 0o600))

	require.NoError(t, WriteAtomic(context.Background(), private, strings.NewReader("trimmed")))
	info, err := os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	backup := filepath.Join(dir, "backup", "private.log")
	copied, err := CopyIfAbsent(context.Background(), private, backup)
	require.NoError(t, err)
	require.True(t, copied)
	info, err = os.Stat(backup)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	fresh := filepath.Join(dir, "fresh.txt")
	require.NoError(t, WriteAtomic(context.Background(), fresh, strings.NewReader("x")))
	info, err = os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}
