package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesMissingDirs(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "data", "nested", "vault.db")

	got, err := EnsureParentDir(target)
	require.NoError(t, err)
	require.Equal(t, target, got)

	fi, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	_, err = os.Stat(target)
	require.True(t, os.IsNotExist(err), "file itself must not be created")
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "vault.db")

	_, err := EnsureParentDir(target)
	require.NoError(t, err)
	_, err = EnsureParentDir(target)
	require.NoError(t, err)
}

func TestEnsureParentDir_ParentIsFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "vault.db"))
	require.Error(t, err)
}
