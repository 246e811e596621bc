//go:build windows

package fileio

// syncDir is a no-op; directories cannot be fsynced on Windows.
func syncDir(string) error { return nil }
