package postgres

import (
	"context"
	"errors"

	"github.com/chirpsocial/chirper-server/internal/models"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"gorm.io/gorm"
)

// Ensure PostStore satisfies the storage.PostStore interface at compile time.
var _ storage.PostStore = (*PostStore)(nil)

// PostStore provides Postgres-backed persistence for posts.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a post store on top of an open gorm handle.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts a new post row and fills in its generated id and timestamp.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// Get fetches a post by id.
func (s *PostStore) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Post{}, storage.ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

// List returns every post in insertion order.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByOwner returns the posts owned by the given user, oldest first.
// Owner existence is the caller's concern; an unknown owner yields an
// empty slice here.
func (s *PostStore) ListByOwner(ctx context.Context, ownerID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post row.
func (s *PostStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every post owned by the given user and reports how
// many rows went away. Zero is not an error; users with no posts are fine.
func (s *PostStore) DeleteByOwner(ctx context.Context, ownerID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Delete(&models.Post{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
