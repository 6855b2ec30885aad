package escrow

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// 对外只读查询。全部返回副本，调用方拿不到内部可变状态

// Creator 项目创建者（收款方）
func (e *Escrow) Creator() common.Address {
	return e.creator
}

// Account 托管账户
func (e *Escrow) Account() common.Address {
	return e.account
}

// FundingGoal 募集目标
func (e *Escrow) FundingGoal() *big.Int {
	return new(big.Int).Set(e.goal)
}

// StartTime 募集开始时间
func (e *Escrow) StartTime() time.Time {
	return e.start
}

// Metadata 元数据指针
func (e *Escrow) Metadata() string {
	return e.metadata
}

// Status 当前状态
func (e *Escrow) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// CurrentMilestone 当前里程碑下标
func (e *Escrow) CurrentMilestone() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentMilestone
}

// ReleasedPercent 已释放的累计比例，单调不减且不超过100
func (e *Escrow) ReleasedPercent() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.releasedPercent
}

// TotalContributed 当前总贡献
func (e *Escrow) TotalContributed() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.total)
}

// WithdrawableFunds 创建者当前可提取金额
func (e *Escrow) WithdrawableFunds() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.withdrawable)
}

// CancelTally 取消票的加权计票
func (e *Escrow) CancelTally() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.cancelTally)
}

// ContributionOf 某地址的当前净贡献
func (e *Escrow) ContributionOf(addr common.Address) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rec, ok := e.backers[addr]; ok {
		return new(big.Int).Set(rec.Amount)
	}
	return new(big.Int)
}

// VoteOf 某地址当前是否持取消票
func (e *Escrow) VoteOf(addr common.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rec, ok := e.backers[addr]; ok {
		return rec.CancelVote
	}
	return false
}

// RewardsOf 某地址持有的奖励凭证
func (e *Escrow) RewardsOf(addr common.Address) []RewardReceipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.backers[addr]
	if !ok {
		return nil
	}
	out := make([]RewardReceipt, len(rec.Rewards))
	for i, r := range rec.Rewards {
		out[i] = RewardReceipt{TierAmount: new(big.Int).Set(r.TierAmount), TokenId: r.TokenId}
	}
	return out
}

// Tiers 已配置的档位
func (e *Escrow) Tiers() []FundingTier {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]FundingTier, len(e.tiers))
	for i, t := range e.tiers {
		out[i] = FundingTier{
			Amount:         new(big.Int).Set(t.Amount),
			RewardHandle:   t.RewardHandle,
			MaxBackers:     t.MaxBackers,
			CurrentBackers: t.CurrentBackers,
		}
	}
	return out
}

// Milestones 里程碑排期
func (e *Escrow) Milestones() []Milestone {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schedule.Milestones()
}
