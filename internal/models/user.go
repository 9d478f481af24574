package models

import "time"

// User is a profile that can own posts. Posts are never embedded here; they
// are looked up through the post store by owner id, which keeps the
// user<->post relationship acyclic when serializing.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null"`
	Handle    string    `json:"handle" gorm:"uniqueIndex;not null"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	AvatarURL *string   `json:"avatarUrl" gorm:"type:text"`
	JoinDate  time.Time `json:"joinDate" gorm:"autoCreateTime"`
}
