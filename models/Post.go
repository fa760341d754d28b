package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	TagMarine = "Marine"
	TagWild   = "Wild"
)

var ErrPostNotFound = errors.New("Post not found")

// ValidTag reports whether tag is one of the closed post categories.
func ValidTag(tag string) bool {
	return tag == TagMarine || tag == TagWild
}

type Post struct {
	ID          uint          `gorm:"primary_key;autoIncrement" json:"-"`
	PublicID    string        `gorm:"type:uuid;uniqueIndex;column:public_id" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"-"`
	Owner       User          `gorm:"foreignKey:UserID" json:"-"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	ImageURL    string        `gorm:"size:1024;not null" json:"image_url"`
	Description string        `gorm:"type:text" json:"description"`
	Likes       int64         `gorm:"not null;default:0" json:"likes"`
	Tag         string        `gorm:"size:20;not null;index" json:"tag"`
	Comments    []PostComment `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.PublicID) == "" {
		p.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (p *Post) Prepare() {
	p.ID = 0
	p.Title = html.EscapeString(strings.TrimSpace(p.Title))
	p.Description = html.EscapeString(strings.TrimSpace(p.Description))
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Tag = strings.TrimSpace(p.Tag)
	p.Owner = User{}
	p.Comments = nil
	p.Likes = 0
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.Title == "" {
		errorMessages["Required_title"] = "Title is required"
	}
	if p.ImageURL == "" {
		errorMessages["Required_image"] = "Image is required"
	}
	if !ValidTag(p.Tag) {
		errorMessages["Invalid_tag"] = "Tag must be Marine or Wild"
	}
	if p.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	return errorMessages
}

// SavePost inserts the post after checking the owner exists.
func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if _, err := (&User{}).FindUserByID(db, p.UserID); err != nil {
		return nil, err
	}
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Owner").First(p, p.ID).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindAllPosts lists posts newest first. An empty tag means every tag.
func (p *Post) FindAllPosts(db *gorm.DB, tag string) ([]Post, error) {
	posts := []Post{}
	query := db.Preload("Owner").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc, id asc")
		})
	if tag != "" {
		query = query.Where("tag = ?", tag)
	}
	err := query.Order("created_at desc, id desc").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *Post) FindPostByPublicID(db *gorm.DB, publicID string) (*Post, error) {
	var post Post
	err := db.Preload("Owner").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc, id asc")
		}).
		Where("public_id = ?", strings.TrimSpace(publicID)).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (p *Post) IncrementLikes(db *gorm.DB) (*Post, error) {
	result := db.Model(&Post{}).Where("id = ?", p.ID).UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	var likes struct{ Likes int64 }
	if err := db.Model(&Post{}).Select("likes").Where("id = ?", p.ID).Take(&likes).Error; err != nil {
		return nil, err
	}
	p.Likes = likes.Likes
	return p, nil
}

// DeletePost removes the post and its comments together.
func (p *Post) DeletePost(db *gorm.DB) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := (&PostComment{}).DeletePostComments(tx, p.ID); err != nil {
			return err
		}
		result := tx.Where("id = ?", p.ID).Delete(&Post{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}
