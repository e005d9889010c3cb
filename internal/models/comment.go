package models

import "time"

// Comment is a reply left on a post. PostID becomes nil when the post is deleted.
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	PostID   *uint     `json:"post_id" gorm:"index"`
	Post     *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Created  time.Time `json:"created" gorm:"autoCreateTime;index"`
}
