package models

import (
	"time"
)

type Gig struct {
	ID           uint64   `gorm:"primaryKey;autoIncrement:false"`
	Provider     string   `gorm:"type:varchar(42);not null;index"`
	Title        string   `gorm:"type:varchar(255);not null"`
	Description  string   `gorm:"type:text"`
	Category     string   `gorm:"type:varchar(100)"`
	DeliveryTime string   `gorm:"type:varchar(100)"`
	Requirements string   `gorm:"type:text"`
	Tags         []string `gorm:"type:text;serializer:json"`
	Price        string   `gorm:"type:varchar(78);not null"` // BigInt
	Token        string   `gorm:"type:varchar(42);not null"`
	IsActive     bool     `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
