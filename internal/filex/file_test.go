package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("download")
	require.NoError(t, err)

	want := filepath.Join(tmp, "download")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDir_AbsolutePathAndIdempotent(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "exports", "pdf")

	first, err := EnsureDir(abs)
	require.NoError(t, err)
	require.Equal(t, abs, first)

	second, err := EnsureDir(abs)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("download", []byte("x"), 0o660))

	_, err := EnsureDir("download")
	require.Error(t, err)
}

func TestSafeJoin(t *testing.T) {
	dir := t.TempDir()

	got, err := SafeJoin(dir, "3f2a9c.png")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "3f2a9c.png"), got)

	got, err = SafeJoin(dir, "../../etc/passwd")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "passwd"), got)

	for _, bad := range []string{"", ".", "..", "/"} {
		_, err := SafeJoin(dir, bad)
		require.ErrorIs(t, err, ErrBadName, "name %q", bad)
	}
}
