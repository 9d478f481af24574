// Package memory provides in-memory store implementations. They back the
// service and handler tests and are handy for running the server without a
// database.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chirpsocial/chirper-server/internal/models"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/google/uuid"
)

var (
	_ storage.UserStore = (*UserStore)(nil)
	_ storage.PostStore = (*PostStore)(nil)
	_ storage.FileStore = (*FileStore)(nil)
)

// UserStore keeps users in a map, preserving insertion order for List.
type UserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
	order  []uint
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	if user.JoinDate.IsZero() {
		user.JoinDate = time.Now()
	}
	s.users[user.ID] = *user
	s.order = append(s.order, user.ID)
	return nil
}

func (s *UserStore) Get(_ context.Context, id uint) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *UserStore) GetMany(_ context.Context, ids []uint) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *UserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		if user, ok := s.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// PostStore keeps posts in a map, preserving insertion order for List.
type PostStore struct {
	mu     sync.Mutex
	nextID uint
	posts  map[uint]models.Post
	order  []uint
}

// NewPostStore creates an empty in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[uint]models.Post)}
}

func (s *PostStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	post.ID = s.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	s.posts[post.ID] = *post
	s.order = append(s.order, post.ID)
	return nil
}

func (s *PostStore) Get(_ context.Context, id uint) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	return post, nil
}

func (s *PostStore) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, 0, len(s.order))
	for _, id := range s.order {
		if post, ok := s.posts[id]; ok {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *PostStore) ListByOwner(_ context.Context, ownerID uint) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, id := range s.order {
		post, ok := s.posts[id]
		if ok && post.UserID != nil && *post.UserID == ownerID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *PostStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) DeleteByOwner(_ context.Context, ownerID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, post := range s.posts {
		if post.UserID != nil && *post.UserID == ownerID {
			delete(s.posts, id)
			removed++
		}
	}
	return removed, nil
}

// ErrSaveFailed is returned by a FileStore configured to fail.
var ErrSaveFailed = errors.New("file store unavailable")

// FileStore keeps saved payloads in memory. Setting FailSaves makes every
// Save return ErrSaveFailed, for exercising storage-failure paths.
type FileStore struct {
	mu        sync.Mutex
	FailSaves bool
	Saved     map[string][]byte
}

// NewFileStore creates an empty in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{Saved: make(map[string][]byte)}
}

func (s *FileStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return "", ErrSaveFailed
	}
	ref := "uploads/" + uuid.New().String() + "_" + filename
	s.Saved[ref] = append([]byte(nil), data...)
	return ref, nil
}
