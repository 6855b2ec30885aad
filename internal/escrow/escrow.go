package escrow

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Status 托管状态
type Status string

const (
	StatusStarted   Status = "started"   // 募集中
	StatusFunded    Status = "funded"    // 已达标，按里程碑释放
	StatusFinished  Status = "finished"  // 全部释放完成
	StatusCancelled Status = "cancelled" // 已取消，可退款
)

// RewardReceipt 奖励凭证，关联贡献者与已铸造的奖励
type RewardReceipt struct {
	TierAmount *big.Int `json:"tier_amount"`
	TokenId    int64    `json:"token_id"`
}

// ContributorRecord 贡献者记录，首次贡献时惰性创建
type ContributorRecord struct {
	Amount     *big.Int
	CancelVote bool
	Refunded   bool // 终态退款只允许一次
	Rewards    []RewardReceipt
}

// Escrow 单个众筹托管实例
// 状态机是唯一允许修改status的组件。每个公开操作整体持锁执行，
// 对应宿主环境"单次调用不可分割"的保证
type Escrow struct {
	mu sync.Mutex

	creator  common.Address
	account  common.Address // 托管资金的托管账户
	goal     *big.Int
	start    time.Time
	metadata string

	status           Status
	currentMilestone int
	releasedPercent  int64
	withdrawable     *big.Int
	total            *big.Int

	schedule    *Schedule
	tiers       []*FundingTier
	backers     map[common.Address]*ContributorRecord
	cancelTally *big.Int

	token   ValueInstrument
	rewards RewardIssuer
	sink    EventSink
	now     func() time.Time
}

// New 创建托管实例
func New(token ValueInstrument, rewards RewardIssuer, sink EventSink,
	creator, account common.Address, goal *big.Int, start time.Time,
	metadata string, schedule *Schedule) (*Escrow, error) {

	if token == nil || rewards == nil {
		return nil, fmt.Errorf("%w: 缺少资金工具或奖励发行方", ErrInvalidArgument)
	}
	if creator == (common.Address{}) {
		return nil, fmt.Errorf("%w: 创建者地址为空", ErrInvalidArgument)
	}
	if goal == nil || goal.Sign() <= 0 {
		return nil, fmt.Errorf("%w: 募集目标必须大于0", ErrInvalidArgument)
	}
	if schedule == nil || schedule.Len() == 0 {
		return nil, fmt.Errorf("%w: 缺少里程碑排期", ErrInvalidSchedule)
	}
	if sink == nil {
		sink = nopSink{}
	}

	return &Escrow{
		creator:      creator,
		account:      account,
		goal:         new(big.Int).Set(goal),
		start:        start,
		metadata:     metadata,
		status:       StatusStarted,
		withdrawable: new(big.Int),
		total:        new(big.Int),
		schedule:     schedule,
		backers:      make(map[common.Address]*ContributorRecord),
		cancelTally:  new(big.Int),
		token:        token,
		rewards:      rewards,
		sink:         sink,
		now:          time.Now,
	}, nil
}

// CheckFundingSuccess 募集期结算
// 仅在Started且首个里程碑到期后可调用；由于调用必然离开Started，
// 该判定最多发生一次。达标则进入Funded并释放首期，否则进入Cancelled
func (e *Escrow) CheckFundingSuccess() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusStarted {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}
	first := e.schedule.At(0)
	if e.now().Before(first.ReleaseDate) {
		return fmt.Errorf("%w: 首个里程碑%s未到期", ErrTooEarly, first.ReleaseDate.Format(time.RFC3339))
	}

	if e.total.Cmp(e.goal) < 0 {
		e.setStatus(StatusCancelled)
		return nil
	}

	e.setStatus(StatusFunded)
	e.release(0)
	return nil
}

// MilestoneCheck 里程碑检查
// 仅在Funded且当前里程碑到期后可调用。反对票权重严格超过
// totalContributed/2+1时取消项目，否则释放当期份额；
// 最后一个里程碑释放后进入Finished
func (e *Escrow) MilestoneCheck() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusFunded {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}
	ms := e.schedule.At(e.currentMilestone)
	if e.now().Before(ms.ReleaseDate) {
		return fmt.Errorf("%w: 里程碑%d未到期", ErrTooEarly, e.currentMilestone+1)
	}

	e.schedule.recordVotes(e.currentMilestone, e.cancelTally)

	// 取消门槛：严格大于 total/2 + 1
	quorum := new(big.Int).Rsh(e.total, 1)
	quorum.Add(quorum, big.NewInt(1))
	if e.cancelTally.Cmp(quorum) > 0 {
		e.setStatus(StatusCancelled)
		return nil
	}

	e.release(e.currentMilestone)
	return nil
}

// CancelProject 创建者主动取消项目，Started或Funded下无条件生效
func (e *Escrow) CancelProject(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.creator {
		return ErrNotCreator
	}
	if e.status != StatusStarted && e.status != StatusFunded {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}

	e.setStatus(StatusCancelled)
	return nil
}

// release 释放第i个里程碑的份额并推进状态，调用方必须持锁
func (e *Escrow) release(i int) {
	ms := e.schedule.At(i)

	tranche := new(big.Int).Mul(e.total, big.NewInt(ms.ReleasePercent))
	tranche.Div(tranche, big.NewInt(100))
	e.withdrawable.Add(e.withdrawable, tranche)
	e.releasedPercent += ms.ReleasePercent
	if e.releasedPercent > 100 {
		// 构造时已保证总和为100，到这里只能是内部错误
		panic(fmt.Sprintf("escrow: released percent %d exceeds 100", e.releasedPercent))
	}

	if i == e.schedule.Len()-1 {
		e.setStatus(StatusFinished)
		return
	}
	e.currentMilestone = i + 1
}

// setStatus 修改状态并发出审计事件，调用方必须持锁
func (e *Escrow) setStatus(s Status) {
	e.status = s
	e.sink.Record(Event{
		Type:    EventStatusChange,
		Account: e.account,
		Status:  s,
		Time:    e.now(),
	})
}

// record 获取贡献者记录，不存在时惰性创建，调用方必须持锁
func (e *Escrow) record(addr common.Address) *ContributorRecord {
	rec, ok := e.backers[addr]
	if !ok {
		rec = &ContributorRecord{Amount: new(big.Int)}
		e.backers[addr] = rec
	}
	return rec
}
