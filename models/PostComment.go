package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

type PostComment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"-"`
	PostID    uint      `gorm:"not null;index" json:"-"`
	UserID    uint      `gorm:"not null" json:"-"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *PostComment) Prepare() {
	c.ID = 0
	c.Author = html.EscapeString(strings.TrimSpace(c.Author))
	c.Text = html.EscapeString(strings.TrimSpace(c.Text))
}

func (c *PostComment) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if c.Text == "" {
		errorMessages["Required_text"] = "Text is required"
	}
	if c.Author == "" {
		errorMessages["Required_author"] = "Author is required"
	}
	if c.PostID == 0 {
		errorMessages["Required_post"] = "Post is required"
	}
	return errorMessages
}

func (c *PostComment) SaveComment(db *gorm.DB) (*PostComment, error) {
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// When a post is deleted, we also delete the comments that the post had
func (c *PostComment) DeletePostComments(db *gorm.DB, postID uint) (int64, error) {
	result := db.Where("post_id = ?", postID).Delete(&PostComment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
