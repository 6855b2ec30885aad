package reward

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnknownToken = errors.New("奖励不存在")
	ErrNotOwner     = errors.New("不是奖励持有者")
)

// Issuer 进程内奖励凭证发行方（ERC-721语义）
// 每个tokenId恰好有一个持有者，销毁后不再复用
type Issuer struct {
	mu     sync.Mutex
	nextId int64
	owners map[int64]common.Address
}

// New 创建发行方
func New() *Issuer {
	return &Issuer{
		nextId: 1,
		owners: make(map[int64]common.Address),
	}
}

// MintTo 铸造一个新奖励给owner，返回递增的tokenId
func (i *Issuer) MintTo(owner common.Address) (int64, error) {
	if owner == (common.Address{}) {
		return 0, fmt.Errorf("%w: 持有者地址为空", ErrNotOwner)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	id := i.nextId
	i.nextId++
	i.owners[id] = owner
	return id, nil
}

// Burn 销毁奖励
func (i *Issuer) Burn(tokenId int64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.owners[tokenId]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownToken, tokenId)
	}
	delete(i.owners, tokenId)
	return nil
}

// OwnerOf 查询奖励持有者
func (i *Issuer) OwnerOf(tokenId int64) (common.Address, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	owner, ok := i.owners[tokenId]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %d", ErrUnknownToken, tokenId)
	}
	return owner, nil
}

// Transfer 持有者转移奖励
func (i *Issuer) Transfer(from, to common.Address, tokenId int64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	owner, ok := i.owners[tokenId]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownToken, tokenId)
	}
	if owner != from {
		return fmt.Errorf("%w: %s", ErrNotOwner, from.Hex())
	}
	i.owners[tokenId] = to
	return nil
}
