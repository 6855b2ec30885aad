package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BoundInstrument 绑定到某个账户视角的代币接口
// Transfer从绑定账户出账，TransferFrom以绑定账户作为spender，
// 对应链上合约里隐含的msg.sender
type BoundInstrument struct {
	token   *Token
	account common.Address
}

// Bind 以account视角包装账本，结果实现escrow.ValueInstrument
func (t *Token) Bind(account common.Address) *BoundInstrument {
	return &BoundInstrument{token: t, account: account}
}

func (b *BoundInstrument) Allowance(owner, spender common.Address) (*big.Int, error) {
	return b.token.Allowance(owner, spender)
}

func (b *BoundInstrument) BalanceOf(account common.Address) (*big.Int, error) {
	return b.token.BalanceOf(account)
}

func (b *BoundInstrument) Transfer(to common.Address, amount *big.Int) error {
	return b.token.Transfer(b.account, to, amount)
}

func (b *BoundInstrument) TransferFrom(from, to common.Address, amount *big.Int) error {
	return b.token.TransferFrom(b.account, from, to, amount)
}
