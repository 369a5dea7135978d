package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	Address   string `gorm:"type:varchar(42);primaryKey"`
	Token     string `gorm:"type:varchar(42);primaryKey"`
	Balance   string `gorm:"type:varchar(78);not null;default:'0'"` // BigInt
	Frozen    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Deposit struct {
	TxHash      string `gorm:"type:varchar(66);primaryKey"`
	Depositor   string `gorm:"type:varchar(42);not null;index"`
	Token       string `gorm:"type:varchar(42);not null"`
	Amount      string `gorm:"type:varchar(78);not null"`
	BlockNumber uint64
	CreatedAt   time.Time
}

type Withdrawal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Account   string    `gorm:"type:varchar(42);not null;index"`
	Token     string    `gorm:"type:varchar(42);not null"`
	Amount    string    `gorm:"type:varchar(78);not null"`
	CreatedAt time.Time
}
