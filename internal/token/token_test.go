package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice  = common.HexToAddress("0x1000000000000000000000000000000000000001")
	bob    = common.HexToAddress("0x2000000000000000000000000000000000000002")
	escrow = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func TestMintAndBalance(t *testing.T) {
	tok := New()

	require.NoError(t, tok.Mint(alice, big.NewInt(100)))
	require.NoError(t, tok.Mint(alice, big.NewInt(50)))

	balance, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance.Int64())
	assert.Equal(t, int64(150), tok.TotalSupply().Int64())

	assert.ErrorIs(t, tok.Mint(alice, big.NewInt(0)), ErrInvalidAmount)
	assert.ErrorIs(t, tok.Mint(alice, nil), ErrInvalidAmount)
}

func TestTransfer(t *testing.T) {
	tok := New()
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(40)))

	aliceBalance, _ := tok.BalanceOf(alice)
	bobBalance, _ := tok.BalanceOf(bob)
	assert.Equal(t, int64(60), aliceBalance.Int64())
	assert.Equal(t, int64(40), bobBalance.Int64())

	// 余额不足
	assert.ErrorIs(t, tok.Transfer(alice, bob, big.NewInt(61)), ErrInsufficientBalance)
	// 守恒
	assert.Equal(t, int64(100), tok.TotalSupply().Int64())
}

func TestApproveAndTransferFrom(t *testing.T) {
	tok := New()
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))
	require.NoError(t, tok.Approve(alice, escrow, big.NewInt(60)))

	allowance, err := tok.Allowance(alice, escrow)
	require.NoError(t, err)
	assert.Equal(t, int64(60), allowance.Int64())

	// 授权额度随消费递减
	require.NoError(t, tok.TransferFrom(escrow, alice, escrow, big.NewInt(40)))
	allowance, _ = tok.Allowance(alice, escrow)
	assert.Equal(t, int64(20), allowance.Int64())

	// 超出剩余授权
	assert.ErrorIs(t, tok.TransferFrom(escrow, alice, escrow, big.NewInt(21)), ErrInsufficientAllowance)

	// 未被授权的spender
	assert.ErrorIs(t, tok.TransferFrom(bob, alice, bob, big.NewInt(10)), ErrInsufficientAllowance)
}

func TestApproveOverwrites(t *testing.T) {
	tok := New()
	require.NoError(t, tok.Approve(alice, escrow, big.NewInt(60)))
	require.NoError(t, tok.Approve(alice, escrow, big.NewInt(10)))

	allowance, _ := tok.Allowance(alice, escrow)
	assert.Equal(t, int64(10), allowance.Int64())

	// 授权可以清零但不能为负
	require.NoError(t, tok.Approve(alice, escrow, big.NewInt(0)))
	assert.ErrorIs(t, tok.Approve(alice, escrow, big.NewInt(-1)), ErrInvalidAmount)
}

func TestBalanceReturnsCopy(t *testing.T) {
	tok := New()
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	balance, _ := tok.BalanceOf(alice)
	balance.SetInt64(0)

	fresh, _ := tok.BalanceOf(alice)
	assert.Equal(t, int64(100), fresh.Int64())
}

func TestBoundInstrument(t *testing.T) {
	tok := New()
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))
	require.NoError(t, tok.Approve(alice, escrow, big.NewInt(100)))

	bound := tok.Bind(escrow)

	// TransferFrom以绑定账户作为spender动用授权
	require.NoError(t, bound.TransferFrom(alice, escrow, big.NewInt(70)))
	held, _ := bound.BalanceOf(escrow)
	assert.Equal(t, int64(70), held.Int64())

	// Transfer从绑定账户出账
	require.NoError(t, bound.Transfer(bob, big.NewInt(30)))
	bobBalance, _ := bound.BalanceOf(bob)
	assert.Equal(t, int64(30), bobBalance.Int64())

	held, _ = bound.BalanceOf(escrow)
	assert.Equal(t, int64(40), held.Int64())
}
