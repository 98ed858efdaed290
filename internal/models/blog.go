package models

import "time"

type Blog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ThumbnailURL string `gorm:"size:500;not null" json:"thumbnailUrl"`
	ThumbnailKey string `gorm:"size:255" json:"-"`

	Title       string    `gorm:"size:150;uniqueIndex;not null" json:"title"`
	Slug        string    `gorm:"size:180;uniqueIndex;not null" json:"slug"`
	PublishDate time.Time `json:"publishDate"`
	Status      string    `gorm:"size:20;default:'active';index" json:"status"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Author      string    `gorm:"size:100" json:"author"`

	Views    int `gorm:"default:0" json:"views"`
	Likes    int `gorm:"default:0" json:"likes"`
	Dislikes int `gorm:"default:0" json:"dislikes"`

	Categories []string `gorm:"type:text;serializer:json" json:"categories"`
	Tags       []string `gorm:"type:text;serializer:json" json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
