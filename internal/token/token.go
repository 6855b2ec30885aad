package token

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("余额不足")
	ErrInsufficientAllowance = errors.New("授权额度不足")
	ErrInvalidAmount         = errors.New("金额无效")
)

// Token 进程内的同质化代币账本（ERC-20语义）
// 守恒：所有余额之和等于totalSupply；任何余额和授权额度都不为负
type Token struct {
	mu          sync.RWMutex
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
	totalSupply *big.Int
}

// New 创建空账本
func New() *Token {
	return &Token{
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
		totalSupply: new(big.Int),
	}
}

// Mint 增发代币到指定账户，本地模式和测试使用
func (t *Token) Mint(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	t.totalSupply.Add(t.totalSupply, amount)
	return nil
}

// Approve 设置owner对spender的授权额度，覆盖而不是累加
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.allowances[owner]
	if !ok {
		row = make(map[common.Address]*big.Int)
		t.allowances[owner] = row
	}
	row[spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance 查询授权额度
func (t *Token) Allowance(owner, spender common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if row, ok := t.allowances[owner]; ok {
		if a, ok := row[spender]; ok {
			return new(big.Int).Set(a), nil
		}
	}
	return new(big.Int), nil
}

// BalanceOf 查询余额
func (t *Token) BalanceOf(account common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

// Transfer 由from直接转账
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(from, to, amount)
}

// TransferFrom 由spender动用from的授权额度转账
func (t *Token) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	row := t.allowances[from]
	allowance := row[spender]
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s 动用 %s", ErrInsufficientAllowance, spender.Hex(), from.Hex())
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	allowance.Sub(allowance, amount)
	return nil
}

// TotalSupply 当前总供给
func (t *Token) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.totalSupply)
}

// move 余额划转，调用方必须持锁
func (t *Token) move(from, to common.Address, amount *big.Int) error {
	b := t.balances[from]
	if b == nil || b.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, from.Hex())
	}
	b.Sub(b, amount)
	t.credit(to, amount)
	return nil
}

// credit 入账，调用方必须持锁
func (t *Token) credit(to common.Address, amount *big.Int) {
	if b, ok := t.balances[to]; ok {
		b.Add(b, amount)
		return
	}
	t.balances[to] = new(big.Int).Set(amount)
}
