package models

import "time"

// UnknownOwner is the display name used for posts whose owner no longer exists.
const UnknownOwner = "Unknown"

// PostDTO is the flat wire shape for a post. It carries an owner snapshot
// (id + username) instead of a nested User, so the feed can always be
// serialized even when an owner has been deleted.
type PostDTO struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	OwnerID   *uint     `json:"ownerId"`
	OwnerName string    `json:"ownerName"`
}

// NewPostDTO flattens a post together with its owner, if any. A nil owner
// yields a null ownerId and the UnknownOwner placeholder.
func NewPostDTO(post Post, owner *User) PostDTO {
	dto := PostDTO{
		ID:        post.ID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		OwnerName: UnknownOwner,
	}
	if owner != nil {
		id := owner.ID
		dto.OwnerID = &id
		dto.OwnerName = owner.Username
	}
	return dto
}
