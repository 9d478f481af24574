// Package janitor periodically removes avatar files that no user references
// anymore. Replacing an avatar or deleting a user leaves the old file on
// disk; the sweeper reclaims that space on a cron schedule.
package janitor

import (
	"context"
	"log"
	"time"

	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/chirpsocial/chirper-server/internal/storage/disk"
	"github.com/robfig/cron/v3"
)

// Janitor sweeps the disk upload root.
type Janitor struct {
	users storage.UserStore
	files *disk.Store
	grace time.Duration
	cron  *cron.Cron
}

// New creates a janitor. Files younger than grace are never touched, which
// keeps a sweep from racing an in-flight user create.
func New(users storage.UserStore, files *disk.Store, grace time.Duration) *Janitor {
	return &Janitor{users: users, files: files, grace: grace}
}

// Start schedules sweeps according to the given cron spec.
func (j *Janitor) Start(spec string) error {
	j.cron = cron.New()
	_, err := j.cron.AddFunc(spec, func() {
		removed, err := j.Sweep(context.Background())
		if err != nil {
			log.Printf("avatar sweep: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("avatar sweep removed %d file(s)", removed)
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule. Running sweeps finish on their own.
func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Sweep removes every stored file that is older than the grace period and
// not referenced by any user's avatar. It reports how many files went away.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	stored, err := j.files.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return 0, nil
	}

	users, err := j.users.List(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]bool, len(users))
	for _, u := range users {
		if u.AvatarURL != nil {
			referenced[*u.AvatarURL] = true
		}
	}

	cutoff := time.Now().Add(-j.grace)
	removed := 0
	for _, f := range stored {
		if referenced[f.Ref] || f.ModTime.After(cutoff) {
			continue
		}
		if err := j.files.Remove(ctx, f.Ref); err != nil {
			log.Printf("remove %s: %v", f.Ref, err)
			continue
		}
		removed++
	}
	return removed, nil
}
