package model

import (
	"time"
)

// VoteRecordModel 投票记录，每个地址保留最新一条
type VoteRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;uniqueIndex:idx_vote_project_address"`
	Address   string `json:"address" gorm:"not null;uniqueIndex:idx_vote_project_address"`
	Cancel    bool   `json:"cancel" gorm:"not null"`
	Weight    string `json:"weight" gorm:"type:numeric(78,0);not null"`
}

// TableName 自定义表名
func (VoteRecordModel) TableName() string {
	return "vote_record"
}
