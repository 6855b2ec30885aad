package escrow

import (
	"fmt"
	"math/big"

	"github.com/booster-finance/bes/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// AcceptBacker 接受贡献
// 仅在Started且到达startTime后可调用，要求调用者已在资金工具上
// 授权至少amount。重复贡献累加。贡献额恰好命中某个档位且有余量时
// 铸造一个奖励并追加凭证。
// 顺序为检查→内部效果→外部划转：先铸奖励再transferFrom，划转失败时
// 只需销毁刚铸出的奖励即可完整回滚
func (e *Escrow) AcceptBacker(caller common.Address, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusStarted {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}
	if e.now().Before(e.start) {
		return fmt.Errorf("%w: 募集尚未开始", ErrTooEarly)
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: 贡献金额必须大于0", ErrInvalidArgument)
	}

	allowance, err := e.token.Allowance(caller, e.account)
	if err != nil {
		return fmt.Errorf("%w: 查询授权额度失败: %v", ErrTransferFailed, err)
	}
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: 需要%s，当前%s", ErrInsufficientAllowance, amount, allowance)
	}

	rec := e.record(caller)

	// 内部效果
	e.total.Add(e.total, amount)
	rec.Amount.Add(rec.Amount, amount)

	// 档位奖励
	var minted *RewardReceipt
	var tier *FundingTier
	if tier = e.tierFor(amount); tier != nil && tier.CurrentBackers < tier.MaxBackers {
		tokenId, err := e.rewards.MintTo(caller)
		if err != nil {
			e.total.Sub(e.total, amount)
			rec.Amount.Sub(rec.Amount, amount)
			return fmt.Errorf("%w: 铸造奖励失败: %v", ErrTransferFailed, err)
		}
		tier.CurrentBackers++
		rec.Rewards = append(rec.Rewards, RewardReceipt{
			TierAmount: new(big.Int).Set(amount),
			TokenId:    tokenId,
		})
		minted = &rec.Rewards[len(rec.Rewards)-1]
	}

	// 外部划转
	if err := e.token.TransferFrom(caller, e.account, amount); err != nil {
		e.total.Sub(e.total, amount)
		rec.Amount.Sub(rec.Amount, amount)
		if minted != nil {
			tier.CurrentBackers--
			rec.Rewards = rec.Rewards[:len(rec.Rewards)-1]
			if burnErr := e.rewards.Burn(minted.TokenId); burnErr != nil {
				logger.Error("Failed to burn reward %d while rolling back contribution: %v", minted.TokenId, burnErr)
			}
		}
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.sink.Record(Event{
		Type:    EventContribution,
		Account: e.account,
		Actor:   caller,
		Amount:  new(big.Int).Set(amount),
		Time:    e.now(),
	})
	return nil
}

// WithdrawFunds 创建者提取已释放资金
// 可重复调用，withdrawableFunds为0时是幂等空操作
func (e *Escrow) WithdrawFunds(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.creator {
		return ErrNotCreator
	}
	if e.withdrawable.Sign() == 0 {
		return nil
	}

	amount := e.withdrawable
	e.withdrawable = new(big.Int)

	if err := e.token.Transfer(e.creator, amount); err != nil {
		e.withdrawable = amount
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.sink.Record(Event{
		Type:    EventWithdrawal,
		Account: e.account,
		Actor:   caller,
		Amount:  new(big.Int).Set(amount),
		Time:    e.now(),
	})
	return nil
}

// WithdrawRefund 贡献者退款，仅在Started或Cancelled下允许
// 退款额为贡献中尚未释放给创建者的部分：
// record.amount * (100 - cumulativeReleasedPercent) / 100
//
// Started分支：先销毁指定档位的奖励（tierAmount为nil或0时销毁全部），
// 再从总额中扣除该贡献并清零记录。
// Cancelled分支：同一公式计算，不销毁奖励也不扣减总账，
// 记录标记为已退款，终态清算只发生一次
func (e *Escrow) WithdrawRefund(caller common.Address, tierAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusStarted && e.status != StatusCancelled {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}
	rec, ok := e.backers[caller]
	if !ok || rec.Amount.Sign() <= 0 {
		return ErrNotBacker
	}
	if rec.Refunded {
		return ErrAlreadyRefunded
	}

	refund := new(big.Int).Mul(rec.Amount, big.NewInt(100-e.releasedPercent))
	refund.Div(refund, big.NewInt(100))

	if e.status == StatusStarted {
		contributed := new(big.Int).Set(rec.Amount)
		kept := rec.Rewards

		e.total.Sub(e.total, contributed)
		rec.Amount = new(big.Int)
		rec.Rewards = e.burnRewards(caller, kept, tierAmount)

		if err := e.transferRefund(caller, refund); err != nil {
			e.total.Add(e.total, contributed)
			rec.Amount = contributed
			return err
		}
	} else {
		rec.Refunded = true
		if err := e.transferRefund(caller, refund); err != nil {
			rec.Refunded = false
			return err
		}
	}

	e.sink.Record(Event{
		Type:    EventRefund,
		Account: e.account,
		Actor:   caller,
		Amount:  refund,
		Time:    e.now(),
	})
	return nil
}

// transferRefund 向贡献者划转退款，金额为0时跳过划转
func (e *Escrow) transferRefund(caller common.Address, refund *big.Int) error {
	if refund.Sign() == 0 {
		return nil
	}
	if err := e.token.Transfer(caller, refund); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

// burnRewards 销毁匹配档位的奖励凭证，返回保留下来的凭证
// tierAmount为nil或0时销毁全部。销毁前核对ownerOf，奖励已被转走时
// 保留给新持有者，仅移除凭证
func (e *Escrow) burnRewards(caller common.Address, receipts []RewardReceipt, tierAmount *big.Int) []RewardReceipt {
	all := tierAmount == nil || tierAmount.Sign() == 0

	var kept []RewardReceipt
	for _, r := range receipts {
		if !all && r.TierAmount.Cmp(tierAmount) != 0 {
			kept = append(kept, r)
			continue
		}
		owner, err := e.rewards.OwnerOf(r.TokenId)
		if err != nil {
			logger.Warn("Failed to resolve owner of reward %d: %v", r.TokenId, err)
			continue
		}
		if owner != caller {
			// 奖励已转手，不能从新持有者手里销毁
			continue
		}
		if err := e.rewards.Burn(r.TokenId); err != nil {
			logger.Error("Failed to burn reward %d: %v", r.TokenId, err)
		}
	}
	return kept
}
