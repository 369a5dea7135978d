package models

import (
	"time"
)

type Order struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement:false"`
	GigID           uint64  `gorm:"not null;index"`
	Client          string  `gorm:"type:varchar(42);not null;index"`
	Provider        string  `gorm:"type:varchar(42);not null;index"`
	Token           string  `gorm:"type:varchar(42);not null;index"`
	Amount          string  `gorm:"type:varchar(78);not null"` // BigInt
	PaidAmount      string  `gorm:"type:varchar(78);not null;default:'0'"`
	Payer           string  `gorm:"type:varchar(42)"`
	FeePercent      uint8   `gorm:"not null;default:0"`
	IsPaid          bool    `gorm:"not null;index"`
	IsCompleted     bool    `gorm:"not null"`
	Deliverable     string  `gorm:"type:text"`
	PaymentApproved bool    `gorm:"not null"`
	PaymentReleased bool    `gorm:"not null;index"`
	ReleasedVia     string  `gorm:"type:varchar(10)"`
	ProviderAmount  *string `gorm:"type:varchar(78)"`
	FeeAmount       *string `gorm:"type:varchar(78)"`
	CreatedAt       time.Time
	PaidAt          *time.Time
	CompletedAt     *time.Time
	ReleasedAt      *time.Time
	UpdatedAt       time.Time
}
