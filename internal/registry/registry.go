package registry

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BindInstrument 为某个托管账户绑定资金工具视角
type BindInstrument func(account common.Address) escrow.ValueInstrument

// Params 创建托管实例的参数
type Params struct {
	Token             BindInstrument
	Rewards           escrow.RewardIssuer
	Sink              escrow.EventSink
	Creator           common.Address
	Account           common.Address // 为空时按实例id派生
	FundingGoal       *big.Int
	StartTime         time.Time
	Metadata          string
	MilestoneDates    []time.Time
	MilestonePercents []int64
}

// Entry 注册表条目
type Entry struct {
	Id      int64
	Account common.Address
	Escrow  *escrow.Escrow
}

// Registry 托管实例注册表
// 创建实例并保存在只追加的列表里，任何人都可以查询
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
	byId    map[int64]*Entry
}

// New 创建空注册表
func New() *Registry {
	return &Registry{byId: make(map[int64]*Entry)}
}

// Create 校验排期并创建托管实例，返回分配的实例id
// 排期校验失败时不会产生任何条目
func (r *Registry) Create(p Params) (*Entry, error) {
	if p.Token == nil {
		return nil, fmt.Errorf("%w: 缺少资金工具", escrow.ErrInvalidArgument)
	}

	schedule, err := escrow.NewSchedule(p.StartTime, p.MilestoneDates, p.MilestonePercents)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := int64(len(r.entries) + 1)
	account := p.Account
	if account == (common.Address{}) {
		account = deriveAccount(id)
	}

	e, err := escrow.New(p.Token(account), p.Rewards, p.Sink,
		p.Creator, account, p.FundingGoal, p.StartTime, p.Metadata, schedule)
	if err != nil {
		return nil, err
	}

	entry := &Entry{Id: id, Account: account, Escrow: e}
	r.entries = append(r.entries, entry)
	r.byId[id] = entry
	return entry, nil
}

// Get 按id查询
func (r *Registry) Get(id int64) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byId[id]
	return entry, ok
}

// List 返回全部条目的快照，按创建顺序
func (r *Registry) List() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len 实例数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// deriveAccount 为进程内实例派生确定性的托管账户地址
func deriveAccount(id int64) common.Address {
	h := crypto.Keccak256([]byte(fmt.Sprintf("bes/escrow/%d", id)))
	return common.BytesToAddress(h[12:])
}
