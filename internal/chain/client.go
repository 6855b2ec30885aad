package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/booster-finance/bes/internal/config"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client 以太坊客户端封装，持有服务自己的签名私钥
type Client struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	chainId    *big.Int
}

// Init 连接RPC节点并解析私钥
func Init(cfg config.TokenConfig) (*Client, error) {
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		client:     client,
		privateKey: privateKey,
		chainId:    big.NewInt(cfg.ChainId),
	}, nil
}

// Account 服务签名账户的地址
func (c *Client) Account() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// Auth 构造交易签名授权
func (c *Client) Auth() (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return auth, nil
}

// Raw 底层ethclient
func (c *Client) Raw() *ethclient.Client {
	return c.client
}
