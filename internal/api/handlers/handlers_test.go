package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chirpsocial/chirper-server/internal/api"
	"github.com/chirpsocial/chirper-server/internal/models"
	"github.com/chirpsocial/chirper-server/internal/service"
	"github.com/chirpsocial/chirper-server/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.FileStore) {
	t.Helper()

	files := memory.NewFileStore()
	svc := service.New(memory.NewUserStore(), memory.NewPostStore(), files)
	ts := httptest.NewServer(api.SetupRouter(svc))
	t.Cleanup(ts.Close)
	return ts, files
}

// multipartBody builds a user form with optional avatar bytes.
func multipartBody(t *testing.T, fields map[string]string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range fields {
		require.NoError(t, w.WriteField(key, val))
	}
	if avatar != nil {
		part, err := w.CreateFormFile("avatar", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func createUserRequest(t *testing.T, baseURL string, fields map[string]string, avatar []byte) models.User {
	t.Helper()

	body, contentType := multipartBody(t, fields, avatar)
	resp, err := http.Post(baseURL+"/api/users", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Success)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	return user
}

func createPostRequest(t *testing.T, baseURL string, ownerID uint, content string) (*http.Response, envelope) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"content": content})
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/posts/user/%d", baseURL, ownerID),
		"application/json",
		bytes.NewReader(payload),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func doRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestUserAndPostLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	user := createUserRequest(t, ts.URL, map[string]string{
		"username": "john",
		"handle":   "@john",
		"location": "Berlin",
		"bio":      "first!",
	}, nil)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "john", user.Username)
	assert.Nil(t, user.AvatarURL)
	assert.False(t, user.JoinDate.IsZero())

	resp, env := createPostRequest(t, ts.URL, user.ID, "Hello world!")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post models.Post
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, uint(1), post.ID)
	require.NotNil(t, post.UserID)
	assert.Equal(t, user.ID, *post.UserID)

	// The feed comes back flattened to owner snapshots.
	resp = doRequest(t, http.MethodGet, ts.URL+"/api/posts")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feedEnv envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feedEnv))
	var feed []models.PostDTO
	require.NoError(t, json.Unmarshal(feedEnv.Data, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "Hello world!", feed[0].Content)
	require.NotNil(t, feed[0].OwnerID)
	assert.Equal(t, user.ID, *feed[0].OwnerID)
	assert.Equal(t, "john", feed[0].OwnerName)
}

func TestCreatePost_MissingOwner(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := createPostRequest(t, ts.URL, 999, "anyone there?")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "999")

	listResp := doRequest(t, http.MethodGet, ts.URL+"/api/posts")
	defer listResp.Body.Close()
	var feedEnv envelope
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&feedEnv))
	var feed []models.PostDTO
	require.NoError(t, json.Unmarshal(feedEnv.Data, &feed))
	assert.Empty(t, feed, "nothing may persist when the owner is missing")
}

func TestCreateUser_WithAvatar(t *testing.T) {
	ts, files := newTestServer(t)

	user := createUserRequest(t, ts.URL, map[string]string{
		"username": "ana",
		"handle":   "@ana",
	}, []byte{0x89, 0x50, 0x4e, 0x47})

	require.NotNil(t, user.AvatarURL)
	assert.Contains(t, files.Saved, *user.AvatarURL)
}

func TestUpdateUser_AvatarOnlyReplacedWithPayload(t *testing.T) {
	ts, _ := newTestServer(t)

	user := createUserRequest(t, ts.URL, map[string]string{
		"username": "ana",
		"handle":   "@ana",
	}, []byte("v1"))
	require.NotNil(t, user.AvatarURL)
	original := *user.AvatarURL

	// Update without a file: profile changes, avatar reference stays.
	body, contentType := multipartBody(t, map[string]string{
		"username": "ana maria",
		"handle":   "@ana",
	}, nil)
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/users/%d", ts.URL, user.ID), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var updated models.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))

	assert.Equal(t, "ana maria", updated.Username)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, original, *updated.AvatarURL)

	// Update with a file: the reference moves on.
	body, contentType = multipartBody(t, map[string]string{
		"username": "ana maria",
		"handle":   "@ana",
	}, []byte("v2"))
	req, err = http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/users/%d", ts.URL, user.ID), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.NotNil(t, updated.AvatarURL)
	assert.NotEqual(t, original, *updated.AvatarURL)
}

func TestDeleteUser_CascadesOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)

	user := createUserRequest(t, ts.URL, map[string]string{
		"username": "john",
		"handle":   "@john",
	}, nil)

	resp, _ := createPostRequest(t, ts.URL, user.ID, "going away")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	del := doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/users/%d", ts.URL, user.ID))
	io.Copy(io.Discard, del.Body)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	// Deleting again: the user is gone.
	del = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/users/%d", ts.URL, user.ID))
	io.Copy(io.Discard, del.Body)
	del.Body.Close()
	assert.Equal(t, http.StatusNotFound, del.StatusCode)

	// Cascading policy: listing the deleted owner's posts is a 404, and the
	// feed no longer contains them.
	listResp := doRequest(t, http.MethodGet, fmt.Sprintf("%s/api/posts/user/%d", ts.URL, user.ID))
	io.Copy(io.Discard, listResp.Body)
	listResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, listResp.StatusCode)

	feedResp := doRequest(t, http.MethodGet, ts.URL+"/api/posts")
	defer feedResp.Body.Close()
	var feedEnv envelope
	require.NoError(t, json.NewDecoder(feedResp.Body).Decode(&feedEnv))
	var feed []models.PostDTO
	require.NoError(t, json.Unmarshal(feedEnv.Data, &feed))
	assert.Empty(t, feed)
}

func TestGetUser_NotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/users/12345")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "12345")
}

func TestDeletePost_NotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodDelete, ts.URL+"/api/posts/7")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePost_EmptyContentRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	user := createUserRequest(t, ts.URL, map[string]string{
		"username": "john",
		"handle":   "@john",
	}, nil)

	resp, env := createPostRequest(t, ts.URL, user.ID, "   ")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}
