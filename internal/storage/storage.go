package storage

import (
	"context"
	"errors"

	"github.com/chirpsocial/chirper-server/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrOwnerNotFound indicates a post operation referenced a user that does
// not exist. Kept distinct from ErrNotFound so callers can name the missing
// entity in their response.
var ErrOwnerNotFound = errors.New("owner not found")

// UserStore captures the persistence operations needed for user records.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (models.User, error)
	GetMany(ctx context.Context, ids []uint) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// PostStore captures the persistence operations needed for post records.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id uint) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Post, error)
	Delete(ctx context.Context, id uint) error
	DeleteByOwner(ctx context.Context, ownerID uint) (int64, error)
}

// FileStore persists uploaded binary payloads (avatars) and returns an
// opaque reference usable to retrieve the file later.
type FileStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}
