package janitor

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chirpsocial/chirper-server/internal/models"
	"github.com/chirpsocial/chirper-server/internal/storage/disk"
	"github.com/chirpsocial/chirper-server/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backdate(t *testing.T, path string, age time.Duration) {
	t.Helper()
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestSweep_RemovesOnlyStaleUnreferencedFiles(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserStore()
	files := disk.New(t.TempDir())

	kept, err := files.Save(ctx, "kept.png", []byte("kept"))
	require.NoError(t, err)
	stale, err := files.Save(ctx, "stale.png", []byte("stale"))
	require.NoError(t, err)
	fresh, err := files.Save(ctx, "fresh.png", []byte("fresh"))
	require.NoError(t, err)

	// kept is referenced by a user, stale is an old leftover, fresh is an
	// unreferenced file still inside the grace period.
	require.NoError(t, users.Create(ctx, &models.User{
		Username:  "john",
		Handle:    "@john",
		AvatarURL: &kept,
	}))
	backdate(t, kept, 48*time.Hour)
	backdate(t, stale, 48*time.Hour)

	j := New(users, files, time.Hour)
	removed, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.FileExists(t, kept)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestSweep_EmptyRoot(t *testing.T) {
	j := New(memory.NewUserStore(), disk.New(t.TempDir()), time.Hour)

	removed, err := j.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStartRejectsBadSpec(t *testing.T) {
	j := New(memory.NewUserStore(), disk.New(t.TempDir()), time.Hour)

	err := j.Start("not a cron spec")
	assert.Error(t, err)
}
