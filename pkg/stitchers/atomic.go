package stitchers

import (
	"os"
	"path/filepath"
	"strings"
)

// AtomicWrite calls write with a temporary path in filename's directory and
// renames the result onto filename only if write succeeds. The temporary path
// keeps filename's extension, so writers that pick a container by extension
// behave the same. On failure nothing is left behind.
func AtomicWrite(filename string, write func(tmp string) error) error {
	dir := filepath.Dir(filename)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), ext)

	f, err := os.CreateTemp(dir, "."+stem+"-*"+ext)
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
