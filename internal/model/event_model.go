package model

import (
	"time"
)

// EventModel 审计事件记录，只追加
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	EscrowAccount string    `json:"escrow_account" gorm:"not null;index"`
	EventType     string    `json:"event_type" gorm:"not null"`
	Actor         string    `json:"actor"`
	Amount        string    `json:"amount" gorm:"type:numeric(78,0)"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at" gorm:"not null"`
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
