package models

import (
	"time"

	"github.com/google/uuid"
)

type MarketEvent struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Type        string            `gorm:"type:varchar(50);not null;index"`
	GigID       uint64            `gorm:"index"`
	OrderID     uint64            `gorm:"index"`
	Actor       string            `gorm:"type:varchar(42);not null"`
	Amount      string            `gorm:"type:varchar(78)"`
	Token       string            `gorm:"type:varchar(42)"`
	Metadata    map[string]string `gorm:"type:text;serializer:json"`
	CreatedAt   time.Time         `gorm:"index"`
	PublishedAt *time.Time        `gorm:"index"`
}
