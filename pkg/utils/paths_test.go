package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultDBPathOnly_UsesGroup(t *testing.T) {
	path := GetDefaultDBPathOnly("group.test")

	assert.Equal(t, DBFileName, filepath.Base(path))
	assert.Equal(t, "group.test", filepath.Base(filepath.Dir(path)))
}

func TestResolveAndEnsureDBPath_CreatesParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "dir", "store.db")

	resolved, err := ResolveAndEnsureDBPath(target, "")
	require.NoError(t, err)
	assert.Equal(t, target, resolved)

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveAndEnsureDBPath_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, err := ResolveAndEnsureDBPath("~/boxes/store.db", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "boxes", "store.db"), resolved)
}
