package registry

import (
	"math/big"
	"testing"
	"time"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/reward"
	"github.com/booster-finance/bes/internal/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator = common.HexToAddress("0x1000000000000000000000000000000000000001")
	base    = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

func testParams(tok *token.Token) Params {
	return Params{
		Token:             func(account common.Address) escrow.ValueInstrument { return tok.Bind(account) },
		Rewards:           reward.New(),
		Creator:           creator,
		FundingGoal:       big.NewInt(100),
		StartTime:         base,
		Metadata:          "ipfs://project",
		MilestoneDates:    []time.Time{base.Add(24 * time.Hour), base.Add(48 * time.Hour)},
		MilestonePercents: []int64{40, 60},
	}
}

func TestCreateAssignsSequentialIds(t *testing.T) {
	reg := New()
	tok := token.New()

	first, err := reg.Create(testParams(tok))
	require.NoError(t, err)
	second, err := reg.Create(testParams(tok))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Id)
	assert.Equal(t, int64(2), second.Id)
	assert.Equal(t, 2, reg.Len())

	// 每个实例有独立的派生托管账户
	assert.NotEqual(t, first.Account, second.Account)
	assert.NotEqual(t, common.Address{}, first.Account)
}

func TestCreateDerivedAccountIsDeterministic(t *testing.T) {
	tok := token.New()

	a := New()
	b := New()
	ea, err := a.Create(testParams(tok))
	require.NoError(t, err)
	eb, err := b.Create(testParams(tok))
	require.NoError(t, err)

	// 同一id在任何进程里派生出同一账户
	assert.Equal(t, ea.Account, eb.Account)
}

func TestCreateHonorsExplicitAccount(t *testing.T) {
	reg := New()
	tok := token.New()

	custody := common.HexToAddress("0x9000000000000000000000000000000000000009")
	p := testParams(tok)
	p.Account = custody

	entry, err := reg.Create(p)
	require.NoError(t, err)
	assert.Equal(t, custody, entry.Account)
	assert.Equal(t, custody, entry.Escrow.Account())
}

func TestCreateRejectsInvalidSchedule(t *testing.T) {
	reg := New()
	tok := token.New()

	p := testParams(tok)
	p.MilestonePercents = []int64{40, 50}
	_, err := reg.Create(p)
	assert.ErrorIs(t, err, escrow.ErrInvalidSchedule)

	p = testParams(tok)
	p.MilestoneDates = nil
	p.MilestonePercents = nil
	_, err = reg.Create(p)
	assert.ErrorIs(t, err, escrow.ErrInvalidSchedule)

	// 失败不占用id
	assert.Equal(t, 0, reg.Len())
	entry, err := reg.Create(testParams(tok))
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Id)
}

func TestCreateRequiresToken(t *testing.T) {
	reg := New()
	p := testParams(token.New())
	p.Token = nil
	_, err := reg.Create(p)
	assert.ErrorIs(t, err, escrow.ErrInvalidArgument)
}

func TestGetAndList(t *testing.T) {
	reg := New()
	tok := token.New()

	_, ok := reg.Get(1)
	assert.False(t, ok)

	entry, err := reg.Create(testParams(tok))
	require.NoError(t, err)

	got, ok := reg.Get(entry.Id)
	require.True(t, ok)
	assert.Same(t, entry, got)

	list := reg.List()
	require.Len(t, list, 1)
	assert.Same(t, entry, list[0])
	assert.Equal(t, escrow.StatusStarted, list[0].Escrow.Status())
}

func TestCreatedEscrowMovesFunds(t *testing.T) {
	reg := New()
	tok := token.New()
	backer := common.HexToAddress("0x2000000000000000000000000000000000000002")

	entry, err := reg.Create(testParams(tok))
	require.NoError(t, err)

	require.NoError(t, tok.Mint(backer, big.NewInt(100)))
	require.NoError(t, tok.Approve(backer, entry.Account, big.NewInt(100)))

	// 绑定视角把资金划进派生的托管账户
	require.NoError(t, entry.Escrow.AcceptBacker(backer, big.NewInt(100)))

	held, err := tok.BalanceOf(entry.Account)
	require.NoError(t, err)
	assert.Equal(t, int64(100), held.Int64())

	left, _ := tok.BalanceOf(backer)
	assert.Zero(t, left.Sign())
}
