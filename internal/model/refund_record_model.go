package model

import (
	"time"
)

// RefundRecordModel 退款记录
type RefundRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;index"`
	Amount    string `json:"amount" gorm:"type:numeric(78,0);not null"`
	Address   string `json:"address" gorm:"not null;index"`
	Phase     string `json:"phase" gorm:"not null"` // 退款发生时的状态: started, cancelled
}

// TableName 自定义表名
func (RefundRecordModel) TableName() string {
	return "refund_record"
}
