package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:150;not null" json:"email"`
	Mobile       string `gorm:"size:20;uniqueIndex;not null" json:"mobile"`
	Address      string `gorm:"size:255" json:"address"`
	Pincode      string `gorm:"size:20" json:"pincode"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Status       string `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
