package escrow

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignTiersValidation(t *testing.T) {
	env := newTestEnv(t, 100)
	env.setClock(testBase.Add(-time.Hour))

	amounts := []*big.Int{big.NewInt(50)}
	handles := []string{"gold"}
	capacity := []int{3}

	// 仅创建者可配置
	assert.ErrorIs(t, env.escrow.AssignTiers(testAlice, amounts, handles, capacity), ErrNotCreator)

	// 空档位
	assert.ErrorIs(t, env.escrow.AssignTiers(testCreator, nil, nil, nil), ErrInvalidArgument)

	// 数组长度不一致
	assert.ErrorIs(t, env.escrow.AssignTiers(testCreator, amounts, []string{"a", "b"}, capacity), ErrInvalidArgument)

	// 金额与容量必须为正
	assert.ErrorIs(t, env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(0)}, handles, capacity), ErrInvalidArgument)
	assert.ErrorIs(t, env.escrow.AssignTiers(testCreator,
		amounts, handles, []int{0}), ErrInvalidArgument)

	// 同一批次内金额重复
	assert.ErrorIs(t, env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(50), big.NewInt(50)},
		[]string{"a", "b"}, []int{1, 1}), ErrInvalidArgument)

	// 校验失败不留部分配置
	assert.Empty(t, env.escrow.Tiers())
}

func TestAssignTiersAfterStartRejected(t *testing.T) {
	env := newTestEnv(t, 100)

	// 时钟恰好等于开始时间也算太晚
	err := env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(50)}, []string{"gold"}, []int{3})
	assert.ErrorIs(t, err, ErrTooLate)
}

func TestAssignTiersDuplicateAcrossCalls(t *testing.T) {
	env := newTestEnv(t, 100)
	env.setClock(testBase.Add(-time.Hour))

	require.NoError(t, env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(50)}, []string{"gold"}, []int{3}))

	err := env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(50)}, []string{"another"}, []int{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Len(t, env.escrow.Tiers(), 1)
}

func TestAssignTiersCapacityLimit(t *testing.T) {
	env := newTestEnv(t, 100)
	env.setClock(testBase.Add(-time.Hour))

	amounts := make([]*big.Int, maxTiers)
	handles := make([]string, maxTiers)
	capacity := make([]int, maxTiers)
	for i := range amounts {
		amounts[i] = big.NewInt(int64(10 * (i + 1)))
		handles[i] = "tier"
		capacity[i] = 1
	}
	require.NoError(t, env.escrow.AssignTiers(testCreator, amounts, handles, capacity))
	require.Len(t, env.escrow.Tiers(), maxTiers)

	// 超出总数上限
	err := env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(999)}, []string{"extra"}, []int{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTierLifecycle(t *testing.T) {
	env := newTestEnv(t, 100)
	env.setClock(testBase.Add(-time.Hour))

	require.NoError(t, env.escrow.AssignTiers(testCreator,
		[]*big.Int{big.NewInt(30), big.NewInt(70)},
		[]string{"silver", "gold"}, []int{2, 1}))

	env.setClock(testBase)
	env.contribute(t, testAlice, 70)
	env.contribute(t, testBob, 30)
	env.contribute(t, testCarol, 30)

	tiers := env.escrow.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, 2, tiers[0].CurrentBackers)
	assert.Equal(t, 1, tiers[1].CurrentBackers)
	assert.Equal(t, "gold", tiers[1].RewardHandle)

	// 每个命中者持有一张对应档位的凭证
	require.Len(t, env.escrow.RewardsOf(testAlice), 1)
	assert.Equal(t, int64(70), env.escrow.RewardsOf(testAlice)[0].TierAmount.Int64())
	require.Len(t, env.escrow.RewardsOf(testCarol), 1)
}

func TestTiersReturnsCopies(t *testing.T) {
	env := newTestEnv(t, 100)
	env.assignTier(t, 50, "gold", 3)

	tiers := env.escrow.Tiers()
	tiers[0].Amount.SetInt64(1)
	tiers[0].CurrentBackers = 9

	fresh := env.escrow.Tiers()
	assert.Equal(t, int64(50), fresh[0].Amount.Int64())
	assert.Equal(t, 0, fresh[0].CurrentBackers)
}
