package escrow

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Vote 贡献者投取消票或撤回取消票
// 仅在Funded下允许，且调用者必须有未清零的贡献。投票必须改变当前
// 取值：重复投相同的票被拒绝，加权计票因此只需要在切换时增减
// record.amount
func (e *Escrow) Vote(caller common.Address, cancel bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusFunded {
		return fmt.Errorf("%w: 当前状态为%s", ErrWrongPhase, e.status)
	}
	rec, ok := e.backers[caller]
	if !ok || rec.Amount.Sign() <= 0 {
		return ErrNotBacker
	}
	if rec.CancelVote == cancel {
		return ErrUnchangedVote
	}

	rec.CancelVote = cancel
	if cancel {
		e.cancelTally.Add(e.cancelTally, rec.Amount)
	} else {
		e.cancelTally.Sub(e.cancelTally, rec.Amount)
	}

	e.sink.Record(Event{
		Type:    EventVote,
		Account: e.account,
		Actor:   caller,
		Amount:  new(big.Int).Set(rec.Amount),
		Time:    e.now(),
	})
	return nil
}
