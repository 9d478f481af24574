package models

import "time"

// Post belongs to at most one user. UserID is nullable: a post whose owner
// was removed keeps existing with a nil owner and is rendered with a
// placeholder owner name (see PostDTO).
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"ownerId" gorm:"index"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
