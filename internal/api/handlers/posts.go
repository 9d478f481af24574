package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/chirpsocial/chirper-server/internal/service"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/chirpsocial/chirper-server/internal/utils"
)

// PostHandler serves the /posts endpoints.
type PostHandler struct {
	svc *service.Service
}

// NewPostHandler creates a post handler backed by the given service.
func NewPostHandler(svc *service.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

type createPostRequest struct {
	Content string `json:"content"`
}

// Create godoc
// @Summary Create a post for a user
// @Description Persists a post owned by the given user. Fails when the owner does not exist.
// @Tags Posts
// @Accept json
// @Produce json
// @Param userId path int true "Owner user id"
// @Param payload body createPostRequest true "Post content"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/posts/user/{userId} [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Post content is required",
		})
		return
	}

	post, err := h.svc.CreatePost(r.Context(), ownerID, req.Content)
	if err != nil {
		respondPostError(w, ownerID, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Post created",
		Data:    post,
	})
}

// List godoc
// @Summary List the whole feed
// @Description Returns every post flattened with an owner snapshot; orphaned posts carry a null ownerId and "Unknown" owner name.
// @Tags Posts
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		log.Printf("list posts: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to fetch posts",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Posts fetched",
		Data:    posts,
	})
}

// ListByUser godoc
// @Summary List one user's posts
// @Tags Posts
// @Produce json
// @Param userId path int true "Owner user id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/posts/user/{userId} [get]
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	posts, err := h.svc.ListUserPosts(r.Context(), ownerID)
	if err != nil {
		respondPostError(w, ownerID, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Posts fetched",
		Data:    posts,
	})
}

// Delete godoc
// @Summary Delete a post
// @Tags Posts
// @Param id path int true "Post id"
// @Success 204 "No Content"
// @Failure 404 {object} utils.Payload
// @Router /api/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "Post not found with id " + strconv.FormatUint(uint64(id), 10),
			})
			return
		}
		log.Printf("delete post %d: %v", id, err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Internal server error",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondPostError(w http.ResponseWriter, ownerID uint, err error) {
	if errors.Is(err, storage.ErrOwnerNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "User not found with id " + strconv.FormatUint(uint64(ownerID), 10),
		})
		return
	}
	log.Printf("posts of user %d: %v", ownerID, err)
	utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
		Success: false,
		Message: "Internal server error",
	})
}
