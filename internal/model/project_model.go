package model

import (
	"time"
)

// ProjectModel 众筹托管项目
// 金额列是链上精度的整数，统一用numeric(78,0)存字符串
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	MetadataURL string `json:"metadata_url"`

	// 托管信息
	EscrowId      int64  `json:"escrow_id" gorm:"uniqueIndex"`
	EscrowAccount string `json:"escrow_account" gorm:"not null"`

	// 募集信息
	FundingGoal      string `json:"funding_goal" gorm:"type:numeric(78,0);not null"`
	TotalContributed string `json:"total_contributed" gorm:"type:numeric(78,0);default:0"`
	Withdrawable     string `json:"withdrawable" gorm:"type:numeric(78,0);default:0"`
	ReleasedPercent  int64  `json:"released_percent" gorm:"default:0"`
	CurrentMilestone int    `json:"current_milestone" gorm:"default:0"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`

	// 状态
	Status string `json:"status" gorm:"default:'started'"` // started, funded, finished, cancelled

	// 创建者信息
	CreatorAddress string `json:"creator_address" gorm:"not null"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}
