package model

import (
	"time"
)

// ContributeRecordModel 贡献记录
type ContributeRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;index"`
	Amount    string `json:"amount" gorm:"type:numeric(78,0);not null"`
	Address   string `json:"address" gorm:"not null;index"`
	TokenId   *int64 `json:"token_id"` // 命中档位时铸造的奖励id
}

// TableName 自定义表名
func (ContributeRecordModel) TableName() string {
	return "contribute_record"
}
