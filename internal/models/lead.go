package models

import "time"

const (
	LeadPending   = "pending"
	LeadCompleted = "completed"
	LeadCancelled = "cancelled"
	LeadRejected  = "rejected"
)

type RequestQuote struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName       string `gorm:"size:100;not null" json:"firstName"`
	LastName        string `gorm:"size:100;not null" json:"lastName"`
	Mobile          string `gorm:"size:20;not null;index:idx_quote_contact" json:"mobile"`
	Email           string `gorm:"size:150;not null;index:idx_quote_contact" json:"email"`
	Location        string `gorm:"size:255;not null" json:"location"`
	ReasonOfInquiry string `gorm:"size:255;not null" json:"reasonOfInquiry"`
	Message         string `gorm:"type:text;not null" json:"message"`
	Status          string `gorm:"size:20;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type JoinUs struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Email     string `gorm:"size:150;not null;index:idx_join_us_contact" json:"email"`
	Mobile    string `gorm:"size:20;not null;index:idx_join_us_contact" json:"mobile"`
	AboutYou  string `gorm:"type:text;not null" json:"aboutYou"`
	WhyJoinUs string `gorm:"type:text;not null" json:"whyJoinUs"`
	Resume    string `gorm:"size:500;not null" json:"resume"`
	Status    string `gorm:"size:20;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (JoinUs) TableName() string {
	return "join_us_applications"
}
