package model

import (
	"time"
)

// TierModel 贡献档位配置
type TierModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId      int64  `json:"project_id" gorm:"not null;index"`
	Amount         string `json:"amount" gorm:"type:numeric(78,0);not null"`
	RewardHandle   string `json:"reward_handle" gorm:"not null"`
	MaxBackers     int    `json:"max_backers" gorm:"not null"`
	CurrentBackers int    `json:"current_backers" gorm:"default:0"`
}

// TableName 自定义表名
func (TierModel) TableName() string {
	return "funding_tier"
}
