package reward

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x1000000000000000000000000000000000000001")
	bob   = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func TestMintAssignsSequentialIds(t *testing.T) {
	issuer := New()

	first, err := issuer.MintTo(alice)
	require.NoError(t, err)
	second, err := issuer.MintTo(bob)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	owner, err := issuer.OwnerOf(first)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
}

func TestMintRejectsZeroAddress(t *testing.T) {
	issuer := New()
	_, err := issuer.MintTo(common.Address{})
	assert.Error(t, err)
}

func TestBurn(t *testing.T) {
	issuer := New()
	id, err := issuer.MintTo(alice)
	require.NoError(t, err)

	require.NoError(t, issuer.Burn(id))

	_, err = issuer.OwnerOf(id)
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.ErrorIs(t, issuer.Burn(id), ErrUnknownToken)

	// 销毁后的id不复用
	next, err := issuer.MintTo(alice)
	require.NoError(t, err)
	assert.Equal(t, id+1, next)
}

func TestTransfer(t *testing.T) {
	issuer := New()
	id, err := issuer.MintTo(alice)
	require.NoError(t, err)

	// 非持有者不能转移
	assert.ErrorIs(t, issuer.Transfer(bob, alice, id), ErrNotOwner)

	require.NoError(t, issuer.Transfer(alice, bob, id))
	owner, err := issuer.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	assert.ErrorIs(t, issuer.Transfer(alice, bob, 999), ErrUnknownToken)
}
