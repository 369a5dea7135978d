package models

import (
	"time"
)

// EngineStateRowID is the primary key of the single engine state row.
const EngineStateRowID = 1

type EngineState struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement:false"`
	Owner              string `gorm:"type:varchar(42);not null"`
	PlatformFeePercent uint8  `gorm:"not null"`
	Paused             bool   `gorm:"not null"`
	NextGigID          uint64 `gorm:"not null"`
	NextOrderID        uint64 `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (EngineState) TableName() string {
	return "engine_state"
}
