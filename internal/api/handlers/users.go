package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/chirpsocial/chirper-server/internal/service"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/chirpsocial/chirper-server/internal/utils"
)

const maxAvatarSize = 10 << 20 // 10 MB

// UserHandler serves the /users endpoints.
type UserHandler struct {
	svc *service.Service
}

// NewUserHandler creates a user handler backed by the given service.
func NewUserHandler(svc *service.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary Create a user
// @Description Creates a user from multipart profile fields with an optional avatar image.
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Display name"
// @Param handle formData string true "Unique handle"
// @Param location formData string false "Location"
// @Param bio formData string false "Bio"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, avatar, ok := parseUserForm(w, r)
	if !ok {
		return
	}

	user, err := h.svc.CreateUser(r.Context(), profile, avatar)
	if err != nil {
		log.Printf("create user: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create user",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User created",
		Data:    user,
	})
}

// List godoc
// @Summary List all users
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to fetch users",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Users fetched",
		Data:    users,
	})
}

// Get godoc
// @Summary Fetch a user by id
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		respondUserError(w, id, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User fetched",
		Data:    user,
	})
}

// Update godoc
// @Summary Replace a user's profile
// @Description Overwrites all profile fields; replaces the avatar only when a new file is supplied.
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "User id"
// @Param username formData string true "Display name"
// @Param handle formData string true "Unique handle"
// @Param location formData string false "Location"
// @Param bio formData string false "Bio"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	profile, avatar, ok := parseUserForm(w, r)
	if !ok {
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, profile, avatar)
	if err != nil {
		respondUserError(w, id, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User updated",
		Data:    user,
	})
}

// Delete godoc
// @Summary Delete a user and all their posts
// @Tags Users
// @Param id path int true "User id"
// @Success 204 "No Content"
// @Failure 404 {object} utils.Payload
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		respondUserError(w, id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseUserForm reads the multipart profile fields plus the optional avatar
// file. It writes the error response itself and reports ok=false on failure.
func parseUserForm(w http.ResponseWriter, r *http.Request) (service.UserProfile, *service.Upload, bool) {
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid multipart form",
		})
		return service.UserProfile{}, nil, false
	}

	profile := service.UserProfile{
		Username: r.FormValue("username"),
		Handle:   r.FormValue("handle"),
		Location: r.FormValue("location"),
		Bio:      r.FormValue("bio"),
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return profile, nil, true
		}
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid avatar upload",
		})
		return service.UserProfile{}, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Failed to read avatar upload",
		})
		return service.UserProfile{}, nil, false
	}

	return profile, &service.Upload{Filename: header.Filename, Data: data}, true
}

func respondUserError(w http.ResponseWriter, id uint, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "User not found with id " + strconv.FormatUint(uint64(id), 10),
		})
		return
	}
	log.Printf("user %d: %v", id, err)
	utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
		Success: false,
		Message: "Internal server error",
	})
}

// pathID parses a numeric path parameter, answering 400 on garbage input.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid " + name + " path parameter",
		})
		return 0, false
	}
	return uint(id), true
}
