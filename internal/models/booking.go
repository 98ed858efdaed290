package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint     `gorm:"not null;index:idx_booking_service_date" json:"serviceId"`
	Service   *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	BookingDate    string `gorm:"size:10;not null;index:idx_booking_service_date" json:"bookingDate"`
	BookingTime    string `gorm:"size:5;not null" json:"bookingTime"`
	BookedDuration int    `gorm:"not null" json:"bookedDuration"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:150;not null" json:"email"`
	Mobile  string `gorm:"size:20;not null" json:"mobile"`
	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	Pincode string `gorm:"size:20" json:"pincode"`
	Country string `gorm:"size:100" json:"country"`

	TotalPrice float64 `json:"totalPrice"`
	Status     string  `gorm:"size:20;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
