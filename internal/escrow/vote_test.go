package escrow

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fundedEnv 按给定贡献进入Funded的标准环境，目标100
func fundedEnv(t *testing.T, contributions map[common.Address]int64) *testEnv {
	t.Helper()
	env := newTestEnv(t, 100)
	for addr, amount := range contributions {
		env.contribute(t, addr, amount)
	}
	env.setClock(testBase.Add(24 * time.Hour))
	require.NoError(t, env.escrow.CheckFundingSuccess())
	require.Equal(t, StatusFunded, env.escrow.Status())
	return env
}

func TestVoteRequiresFundedPhase(t *testing.T) {
	env := newTestEnv(t, 100)
	env.contribute(t, testAlice, 100)

	err := env.escrow.Vote(testAlice, true)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestVoteRequiresContribution(t *testing.T) {
	env := fundedEnv(t, map[common.Address]int64{testAlice: 100})

	err := env.escrow.Vote(testBob, true)
	assert.ErrorIs(t, err, ErrNotBacker)
}

func TestVoteMustChangeValue(t *testing.T) {
	env := fundedEnv(t, map[common.Address]int64{testAlice: 100})

	// 初始取值为false，撤回票被拒绝
	assert.ErrorIs(t, env.escrow.Vote(testAlice, false), ErrUnchangedVote)

	require.NoError(t, env.escrow.Vote(testAlice, true))
	assert.ErrorIs(t, env.escrow.Vote(testAlice, true), ErrUnchangedVote)
}

func TestVoteWeightedTally(t *testing.T) {
	env := fundedEnv(t, map[common.Address]int64{testAlice: 60, testBob: 40})

	require.NoError(t, env.escrow.Vote(testAlice, true))
	assert.Equal(t, int64(60), env.escrow.CancelTally().Int64())
	assert.True(t, env.escrow.VoteOf(testAlice))

	require.NoError(t, env.escrow.Vote(testBob, true))
	assert.Equal(t, int64(100), env.escrow.CancelTally().Int64())

	// 撤回后计票恢复
	require.NoError(t, env.escrow.Vote(testAlice, false))
	assert.Equal(t, int64(40), env.escrow.CancelTally().Int64())
	assert.False(t, env.escrow.VoteOf(testAlice))

	require.NoError(t, env.escrow.Vote(testBob, false))
	assert.Zero(t, env.escrow.CancelTally().Sign())
}

func TestVetoBoundaryAtQuorum(t *testing.T) {
	// total=100，门槛为严格大于51：计票51不取消
	env := fundedEnv(t, map[common.Address]int64{testAlice: 51, testBob: 49})

	require.NoError(t, env.escrow.Vote(testAlice, true))
	require.Equal(t, int64(51), env.escrow.CancelTally().Int64())

	env.setClock(testBase.Add(48 * time.Hour))
	require.NoError(t, env.escrow.MilestoneCheck())
	assert.Equal(t, StatusFunded, env.escrow.Status())
	assert.Equal(t, int64(50), env.escrow.ReleasedPercent())
}

func TestVetoAboveQuorumCancels(t *testing.T) {
	// 计票52严格大于51，里程碑检查取消项目
	env := fundedEnv(t, map[common.Address]int64{testAlice: 52, testBob: 48})

	require.NoError(t, env.escrow.Vote(testAlice, true))

	env.setClock(testBase.Add(48 * time.Hour))
	require.NoError(t, env.escrow.MilestoneCheck())
	assert.Equal(t, StatusCancelled, env.escrow.Status())
	// 取消时不释放当期份额
	assert.Equal(t, int64(20), env.escrow.ReleasedPercent())

	// 检查时的计票快照留在里程碑上
	ms := env.escrow.Milestones()
	assert.Equal(t, int64(52), ms[1].VotesAgainst.Int64())
}

func TestVoteEmitsEvent(t *testing.T) {
	env := fundedEnv(t, map[common.Address]int64{testAlice: 100})

	require.NoError(t, env.escrow.Vote(testAlice, true))

	votes := env.sink.ofType(EventVote)
	require.Len(t, votes, 1)
	assert.Equal(t, testAlice, votes[0].Actor)
	assert.Equal(t, int64(100), votes[0].Amount.Int64())
}
