package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "state", "reader", "session.db")

	got, err := EnsureParentDir(p)
	require.NoError(t, err)

	want := filepath.Join(tmp, "state", "reader")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}

	_, err = os.Stat(p)
	require.True(t, os.IsNotExist(err), "must not create the file itself")
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "a.db")

	first, err := EnsureParentDir(p)
	require.NoError(t, err)

	second, err := EnsureParentDir(p)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureParentDir_BareName(t *testing.T) {
	got, err := EnsureParentDir("mangareader.db")
	require.NoError(t, err)
	require.Equal(t, ".", got)
}

func TestEnsureParentDir_ParentIsFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "a.db"))
	require.Error(t, err)
}
