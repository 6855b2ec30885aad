package escrow

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ValueInstrument 资金划转工具（ERC-20语义）
// 托管只通过这四个操作与资金工具交互，不直接修改其账本
type ValueInstrument interface {
	Allowance(owner, spender common.Address) (*big.Int, error)
	TransferFrom(from, to common.Address, amount *big.Int) error
	Transfer(to common.Address, amount *big.Int) error
	BalanceOf(account common.Address) (*big.Int, error)
}

// RewardIssuer 档位奖励发行方（ERC-721语义）
type RewardIssuer interface {
	MintTo(owner common.Address) (int64, error)
	Burn(tokenId int64) error
	OwnerOf(tokenId int64) (common.Address, error)
}

// EventType 审计事件类型
type EventType string

const (
	EventContribution EventType = "contribution_accepted"
	EventRefund       EventType = "refund_issued"
	EventWithdrawal   EventType = "creator_withdrawal"
	EventVote         EventType = "vote_cast"
	EventStatusChange EventType = "status_changed"
)

// Event 审计事件，只追加，供外部索引使用
type Event struct {
	Type    EventType      `json:"type"`
	Account common.Address `json:"account"` // 托管实例的托管账户
	Actor   common.Address `json:"actor"`   // 触发操作的地址
	Amount  *big.Int       `json:"amount,omitempty"`
	Status  Status         `json:"status,omitempty"`
	Time    time.Time      `json:"time"`
}

// EventSink 审计事件汇
// 核心逻辑的正确性不依赖事件汇是否成功，因此不返回错误
type EventSink interface {
	Record(Event)
}

// nopSink 丢弃所有事件
type nopSink struct{}

func (nopSink) Record(Event) {}
