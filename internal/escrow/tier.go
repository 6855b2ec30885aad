package escrow

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// maxTiers 档位总数上限，同时约束单个贡献者的凭证数量
const maxTiers = 10

// FundingTier 贡献档位：精确金额对应一个限量奖励
type FundingTier struct {
	Amount         *big.Int `json:"amount"`
	RewardHandle   string   `json:"reward_handle"`
	MaxBackers     int      `json:"max_backers"`
	CurrentBackers int      `json:"current_backers"`
}

// AssignTiers 配置贡献档位
// 仅创建者在Started且严格早于startTime时可调用。三个数组长度必须
// 一致，档位总数不超过maxTiers，同一金额只能配置一次
func (e *Escrow) AssignTiers(caller common.Address, amounts []*big.Int, rewardHandles []string, maxBackers []int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.creator {
		return ErrNotCreator
	}
	if e.status != StatusStarted {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}
	if !e.now().Before(e.start) {
		return fmt.Errorf("%w: 募集开始后不能再配置档位", ErrTooLate)
	}
	if len(amounts) == 0 {
		return fmt.Errorf("%w: 档位不能为空", ErrInvalidArgument)
	}
	if len(amounts) != len(rewardHandles) || len(amounts) != len(maxBackers) {
		return fmt.Errorf("%w: 档位数组长度不一致", ErrInvalidArgument)
	}
	if len(e.tiers)+len(amounts) > maxTiers {
		return fmt.Errorf("%w: 档位总数不能超过%d", ErrInvalidArgument, maxTiers)
	}

	for i, amount := range amounts {
		if amount == nil || amount.Sign() <= 0 {
			return fmt.Errorf("%w: 第%d个档位金额必须大于0", ErrInvalidArgument, i+1)
		}
		if maxBackers[i] <= 0 {
			return fmt.Errorf("%w: 第%d个档位容量必须大于0", ErrInvalidArgument, i+1)
		}
		if e.tierFor(amount) != nil {
			return fmt.Errorf("%w: 金额%s的档位已存在", ErrInvalidArgument, amount)
		}
		for j := 0; j < i; j++ {
			if amounts[j].Cmp(amount) == 0 {
				return fmt.Errorf("%w: 金额%s在本次配置中重复", ErrInvalidArgument, amount)
			}
		}
	}

	for i := range amounts {
		e.tiers = append(e.tiers, &FundingTier{
			Amount:       new(big.Int).Set(amounts[i]),
			RewardHandle: rewardHandles[i],
			MaxBackers:   maxBackers[i],
		})
	}
	return nil
}

// tierFor 按精确金额查找档位，调用方必须持锁
func (e *Escrow) tierFor(amount *big.Int) *FundingTier {
	for _, t := range e.tiers {
		if t.Amount.Cmp(amount) == 0 {
			return t
		}
	}
	return nil
}
