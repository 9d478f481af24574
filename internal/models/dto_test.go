package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostDTO_WithOwner(t *testing.T) {
	ownerID := uint(7)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	dto := NewPostDTO(Post{
		ID:        3,
		UserID:    &ownerID,
		Content:   "Hello world!",
		CreatedAt: created,
	}, &User{ID: 7, Username: "john"})

	assert.Equal(t, uint(3), dto.ID)
	assert.Equal(t, "Hello world!", dto.Content)
	assert.Equal(t, created, dto.CreatedAt)
	require.NotNil(t, dto.OwnerID)
	assert.Equal(t, uint(7), *dto.OwnerID)
	assert.Equal(t, "john", dto.OwnerName)
}

func TestNewPostDTO_Orphaned(t *testing.T) {
	dangling := uint(99)
	dto := NewPostDTO(Post{ID: 3, UserID: &dangling, Content: "orphan"}, nil)

	assert.Nil(t, dto.OwnerID, "a dangling owner id must not leak into the output")
	assert.Equal(t, UnknownOwner, dto.OwnerName)
}

func TestPostDTO_JSONShape(t *testing.T) {
	dto := NewPostDTO(Post{ID: 1, Content: "x"}, nil)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// ownerId is present and null, never a zero value, and no nested user
	// object ever appears.
	val, ok := decoded["ownerId"]
	require.True(t, ok)
	assert.Nil(t, val)
	assert.NotContains(t, decoded, "user")
	assert.Equal(t, "Unknown", decoded["ownerName"])
}
