package handler

import "time"

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title             string      `json:"title" binding:"required"`
	Description       string      `json:"description"`
	MetadataURL       string      `json:"metadata_url"`
	Creator           string      `json:"creator" binding:"required"`
	FundingGoal       string      `json:"funding_goal" binding:"required"`
	StartTime         time.Time   `json:"start_time" binding:"required"`
	MilestoneDates    []time.Time `json:"milestone_dates" binding:"required"`
	MilestonePercents []int64     `json:"milestone_percents" binding:"required"`
}

// ContributeRequest 贡献请求
type ContributeRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// RefundRequest 退款请求
type RefundRequest struct {
	Address    string `json:"address" binding:"required"`
	TierAmount string `json:"tier_amount"` // 为空或0时退还全部奖励
}

// VoteRequest 投票请求
type VoteRequest struct {
	Address string `json:"address" binding:"required"`
	Cancel  *bool  `json:"cancel" binding:"required"`
}

// AssignTiersRequest 配置档位请求
type AssignTiersRequest struct {
	Caller        string   `json:"caller" binding:"required"`
	Amounts       []string `json:"amounts" binding:"required"`
	RewardHandles []string `json:"reward_handles" binding:"required"`
	MaxBackers    []int    `json:"max_backers" binding:"required"`
}

// WithdrawRequest 创建者提款请求
type WithdrawRequest struct {
	Caller string `json:"caller" binding:"required"`
}

// CancelRequest 取消项目请求
type CancelRequest struct {
	Caller string `json:"caller" binding:"required"`
}
