package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/booster-finance/bes/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC20标准接口ABI（只包含托管用到的四个操作）
const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

// ERC20 链上代币适配器，实现escrow.ValueInstrument
// 读操作走eth_call，写操作由服务私钥签名并等待回执
type ERC20 struct {
	client   *Client
	address  common.Address
	contract *bind.BoundContract
}

// NewERC20 绑定链上的ERC20合约
func NewERC20(client *Client, address common.Address) (*ERC20, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	contract := bind.NewBoundContract(address, parsedABI, client.Raw(), client.Raw(), client.Raw())
	return &ERC20{
		client:   client,
		address:  address,
		contract: contract,
	}, nil
}

// Allowance 查询owner对spender的授权额度
func (t *ERC20) Allowance(owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{}, &out, "allowance", owner, spender); err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w", err)
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// BalanceOf 查询余额
func (t *ERC20) BalanceOf(account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{}, &out, "balanceOf", account); err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// Transfer 从服务账户向to转账
func (t *ERC20) Transfer(to common.Address, amount *big.Int) error {
	return t.transact("transfer", to, amount)
}

// TransferFrom 动用from对服务账户的授权转账
func (t *ERC20) TransferFrom(from, to common.Address, amount *big.Int) error {
	return t.transact("transferFrom", from, to, amount)
}

// transact 发送交易并等待回执，回执失败视为划转失败
func (t *ERC20) transact(method string, args ...interface{}) error {
	auth, err := t.client.Auth()
	if err != nil {
		return err
	}

	tx, err := t.contract.Transact(auth, method, args...)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	receipt, err := bind.WaitMined(context.Background(), t.client.Raw(), tx)
	if err != nil {
		return fmt.Errorf("failed to wait for %s receipt: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%s transaction %s reverted", method, tx.Hash().Hex())
	}

	logger.Debug("ERC20 %s confirmed in block %d (tx %s)", method, receipt.BlockNumber.Uint64(), tx.Hash().Hex())
	return nil
}
