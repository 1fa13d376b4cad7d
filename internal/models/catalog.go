package models

import "time"

// Price keeps the display string ("R$ 50,00") exactly as the shop typed it.
type Service struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Price    string `gorm:"size:30;not null" json:"price"`
	Duration string `gorm:"size:30" json:"duration"`
	Icon     string `gorm:"size:50" json:"icon"`

	CreatedAt time.Time `json:"created_at"`
}

type Barber struct {
	ID     string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string  `gorm:"size:100;not null" json:"name"`
	Image  string  `gorm:"size:255" json:"image"`
	Rating float64 `gorm:"default:5" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
}
