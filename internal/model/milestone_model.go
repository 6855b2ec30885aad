package model

import (
	"time"
)

// MilestoneModel 里程碑排期记录
type MilestoneModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId      int64     `json:"project_id" gorm:"not null;index"`
	Idx            int       `json:"idx" gorm:"not null"`
	ReleaseDate    time.Time `json:"release_date" gorm:"not null"`
	ReleasePercent int64     `json:"release_percent" gorm:"not null"`
	VotesAgainst   string    `json:"votes_against" gorm:"type:numeric(78,0);default:0"`
}

// TableName 自定义表名
func (MilestoneModel) TableName() string {
	return "project_milestone"
}
