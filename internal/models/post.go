package models

import "time"

// SummaryLength is the number of characters of text used by Post.String.
const SummaryLength = 15

// Post is a text entry written by an author, optionally in a group and with an image.
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID  *uint     `json:"group_id,omitempty" gorm:"index"`
	Group    *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image    string    `json:"image,omitempty" gorm:"size:255"` // storage key, e.g. posts/cat.png
}

// String returns the first SummaryLength characters of the text.
func (p Post) String() string {
	return Truncate(p.Text, SummaryLength)
}

// ImageURL is the public URL of the attached image, or "" when there is none.
func (p Post) ImageURL() string {
	if p.Image == "" {
		return ""
	}
	return "/media/" + p.Image
}

// InGroup reports whether the post belongs to the group with the given id.
func (p Post) InGroup(id uint) bool {
	return p.GroupID != nil && *p.GroupID == id
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
