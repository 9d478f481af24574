// Package service implements the application core: CRUD over users and
// posts, referential-integrity rules between them, and avatar storage.
// Handlers talk to this package only; stores are injected as interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chirpsocial/chirper-server/internal/models"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"golang.org/x/sync/errgroup"
)

// UserProfile carries the mutable profile fields of a user. Updates write
// every field as given; an empty string is a value, not "keep the old one".
type UserProfile struct {
	Username string
	Handle   string
	Location string
	Bio      string
}

// Upload is an optional binary payload attached to a user request. A nil
// Upload or zero-length Data means "no avatar supplied".
type Upload struct {
	Filename string
	Data     []byte
}

// Service orchestrates the stores.
type Service struct {
	users storage.UserStore
	posts storage.PostStore
	files storage.FileStore
}

// New wires a service from its store dependencies.
func New(users storage.UserStore, posts storage.PostStore, files storage.FileStore) *Service {
	return &Service{users: users, posts: posts, files: files}
}

// CreateUser persists a new user. When a non-empty avatar payload is
// supplied it is stored first and the returned reference recorded on the
// user; an empty payload is silently ignored. A failed avatar write aborts
// the whole operation.
func (s *Service) CreateUser(ctx context.Context, profile UserProfile, avatar *Upload) (models.User, error) {
	user := models.User{
		Username: profile.Username,
		Handle:   profile.Handle,
		Location: profile.Location,
		Bio:      profile.Bio,
	}

	if hasPayload(avatar) {
		ref, err := s.files.Save(ctx, avatar.Filename, avatar.Data)
		if err != nil {
			return models.User{}, fmt.Errorf("save avatar: %w", err)
		}
		user.AvatarURL = &ref
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUser fetches a single user.
func (s *Service) GetUser(ctx context.Context, id uint) (models.User, error) {
	return s.users.Get(ctx, id)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateUser overwrites every profile field with the supplied values. The
// avatar is replaced only when a non-empty payload is supplied; otherwise
// the existing reference is left untouched.
func (s *Service) UpdateUser(ctx context.Context, id uint, profile UserProfile, avatar *Upload) (models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	user.Username = profile.Username
	user.Handle = profile.Handle
	user.Location = profile.Location
	user.Bio = profile.Bio

	if hasPayload(avatar) {
		ref, err := s.files.Save(ctx, avatar.Filename, avatar.Data)
		if err != nil {
			return models.User{}, fmt.Errorf("save avatar: %w", err)
		}
		user.AvatarURL = &ref
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user and cascades to every post it owns. Cascading
// keeps post rows from accumulating owner ids that point at nothing; posts
// with a missing owner can still be rendered (see ListPosts) but are never
// produced by this path.
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.users.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.posts.DeleteByOwner(ctx, id); err != nil {
		return fmt.Errorf("cascade posts of user %d: %w", id, err)
	}
	return s.users.Delete(ctx, id)
}

// CreatePost persists a post for an existing owner. A nonexistent owner
// yields ErrOwnerNotFound and nothing is persisted.
func (s *Service) CreatePost(ctx context.Context, ownerID uint, content string) (models.Post, error) {
	if _, err := s.users.Get(ctx, ownerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Post{}, storage.ErrOwnerNotFound
		}
		return models.Post{}, err
	}

	post := models.Post{UserID: &ownerID, Content: content}
	if err := s.posts.Create(ctx, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// ListPosts returns the whole feed as flat DTOs, each carrying an owner
// snapshot taken at read time. A post whose owner no longer exists renders
// with a null ownerId and the "Unknown" placeholder instead of failing the
// whole listing.
func (s *Service) ListPosts(ctx context.Context) ([]models.PostDTO, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	owners, err := s.lookupOwners(ctx, posts)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.PostDTO, 0, len(posts))
	for _, post := range posts {
		var owner *models.User
		if post.UserID != nil {
			owner = owners[*post.UserID]
		}
		dtos = append(dtos, models.NewPostDTO(post, owner))
	}
	return dtos, nil
}

// ListUserPosts returns the posts of one owner. The owner must exist even
// when it has zero posts; a missing owner yields ErrOwnerNotFound. The
// existence check and the post query run concurrently.
func (s *Service) ListUserPosts(ctx context.Context, ownerID uint) ([]models.Post, error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := s.users.Get(gctx, ownerID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrOwnerNotFound
			}
			return err
		}
		return nil
	})

	var posts []models.Post
	g.Go(func() error {
		var err error
		posts, err = s.posts.ListByOwner(gctx, ownerID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// DeletePost removes a single post.
func (s *Service) DeletePost(ctx context.Context, id uint) error {
	return s.posts.Delete(ctx, id)
}

// lookupOwners fetches the distinct owners referenced by posts, keyed by id.
// Owners that no longer exist are simply absent from the map.
func (s *Service) lookupOwners(ctx context.Context, posts []models.Post) (map[uint]*models.User, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, post := range posts {
		if post.UserID == nil || seen[*post.UserID] {
			continue
		}
		seen[*post.UserID] = true
		ids = append(ids, *post.UserID)
	}

	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	owners := make(map[uint]*models.User, len(users))
	for i := range users {
		owners[users[i].ID] = &users[i]
	}
	return owners, nil
}

func hasPayload(u *Upload) bool {
	return u != nil && len(u.Data) > 0
}
