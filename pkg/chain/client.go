package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"onchain-re-lending/pkg/logger"
)

var (
	ErrReceiptTimeout      = errors.New("timed out waiting for transaction receipt")
	ErrTransactionReverted = errors.New("transaction reverted")
)

// Client wraps an ethclient with the raw RPC handle needed for node-signed
// transactions.
type Client struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial prepares an HTTP JSON-RPC client. No request is made until first use.
func Dial(url string, timeout time.Duration) (*Client, error) {
	rc, err := rpc.DialOptions(context.Background(), url, rpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &Client{rpc: rc, eth: ethclient.NewClient(rc)}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// TxArgs is an unsigned transaction; the node (or a relayer behind it) signs it for From.
type TxArgs struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

func (c *Client) SendTransaction(ctx context.Context, args TxArgs) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// SignAndSend builds a legacy EIP-155 transaction from key, signs it locally and
// submits it with eth_sendRawTransaction.
func (c *Client) SignAndSend(ctx context.Context, key *ecdsa.PrivateKey, chainID *big.Int, to common.Address, data []byte) (common.Hash, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce for %s: %w", from.Hex(), err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{Nonce: nonce, To: &to, Gas: gas, GasPrice: gasPrice, Data: data})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}

// WaitForReceipt polls until the transaction is mined with the requested number
// of confirmations, ctx is done, or timeout elapses.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64, pollInterval, timeout time.Duration) (*types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, ErrTransactionReverted
			}
			if ok, err := c.confirmed(ctx, receipt, confirmations); err == nil && ok {
				return receipt, nil
			}
		case errors.Is(err, ethereum.NotFound):
		case ctx.Err() == nil:
			logger.GlobalLogger.Warnf("Receipt poll failed, retrying: hash=%s, error=%v", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrReceiptTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) confirmed(ctx context.Context, receipt *types.Receipt, confirmations uint64) (bool, error) {
	if confirmations <= 1 {
		return true, nil
	}
	if receipt.BlockNumber == nil {
		return false, nil
	}
	head, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return false, err
	}
	return head+1 >= receipt.BlockNumber.Uint64()+confirmations, nil
}
