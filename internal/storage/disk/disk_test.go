package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_CreatesRootAndWritesFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store := New(root)

	ref, err := store.Save(context.Background(), "avatar.png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, root), "reference should live under the root")
	assert.True(t, strings.HasSuffix(ref, "_avatar.png"), "reference should keep the original filename suffix")

	data, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSave_ReferencesNeverCollide(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	first, err := store.Save(ctx, "same.png", []byte("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "same.png", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSave_StripsDirectoryFromFilename(t *testing.T) {
	root := t.TempDir()
	store := New(root)

	ref, err := store.Save(context.Background(), "../../etc/passwd", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, root, filepath.Dir(ref))
	assert.True(t, strings.HasSuffix(ref, "_passwd"))
}

func TestSave_UnwritableRootFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := filepath.Join(t.TempDir(), "sealed")
	require.NoError(t, os.MkdirAll(root, 0o555))
	store := New(root)

	_, err := store.Save(context.Background(), "avatar.png", []byte("x"))
	assert.Error(t, err)
}

func TestRemove_RejectsRefOutsideRoot(t *testing.T) {
	store := New(t.TempDir())

	err := store.Remove(context.Background(), "/etc/hosts")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store := New(root)
	ctx := context.Background()

	files, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files, "a missing root lists empty")

	ref, err := store.Save(ctx, "a.png", []byte("a"))
	require.NoError(t, err)

	files, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ref, files[0].Ref)

	require.NoError(t, store.Remove(ctx, ref))
	files, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}
