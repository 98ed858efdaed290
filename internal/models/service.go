package models

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title        string   `gorm:"size:150;uniqueIndex;not null" json:"title"`
	Description  string   `gorm:"type:text" json:"description"`
	SlotDuration int      `gorm:"not null" json:"slotDuration"`
	ImageURL     string   `gorm:"size:500" json:"imageUrl"`
	Status       string   `gorm:"size:20;default:'active'" json:"status"`
	Price        *float64 `json:"price"`

	Days []ServiceDay `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"days"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceDay is the opening window of a service for one weekday.
type ServiceDay struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	ServiceID uint `gorm:"not null;uniqueIndex:idx_service_day" json:"-"`

	Name          string `gorm:"size:10;not null;uniqueIndex:idx_service_day" json:"name"`
	OpeningTiming string `gorm:"size:5;not null" json:"openingTiming"`
	CloseTiming   string `gorm:"size:5;not null" json:"closeTiming"`
	Status        string `gorm:"size:20;default:'active'" json:"status"`
}

func (s *Service) IsActive() bool {
	return s.Status == StatusActive
}

// ActiveDay returns the active window for the given weekday name.
func (s *Service) ActiveDay(name string) (*ServiceDay, bool) {
	for i := range s.Days {
		if s.Days[i].Name == name && s.Days[i].Status == StatusActive {
			return &s.Days[i], true
		}
	}
	return nil, false
}

func (s *Service) PriceOrZero() float64 {
	if s.Price == nil {
		return 0
	}
	return *s.Price
}
