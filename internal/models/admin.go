package models

import "time"

type Admin struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Mobile       string `gorm:"size:20" json:"mobile"`
	Permission   string `gorm:"size:10;default:'read'" json:"permission"`
	Status       string `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
