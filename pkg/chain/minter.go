package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"onchain-re-lending/pkg/logger"
)

// ErrUnconfirmed marks a mint whose transaction was accepted by the node but
// whose outcome is unknown; the certificate may still appear on chain.
var ErrUnconfirmed = errors.New("mint transaction unconfirmed")

type MintResult struct {
	TransactionHash string
	TokenID         string
	Receipt         *types.Receipt
}

// Minter mints PropertyNFT certificates through adminMint.
type Minter struct {
	client         *Client
	contract       common.Address
	admin          *common.Address
	key            *ecdsa.PrivateKey
	chainID        *big.Int
	explorerURL    string
	confirmations  uint64
	pollInterval   time.Duration
	receiptTimeout time.Duration
}

// MinterConfig configures a Minter. With PrivateKey set transactions are signed
// locally; otherwise the node signs for Admin via eth_sendTransaction.
type MinterConfig struct {
	Contract       string
	Admin          string
	PrivateKey     *ecdsa.PrivateKey
	ChainID        int64
	ExplorerURL    string
	Confirmations  uint64
	PollInterval   time.Duration
	ReceiptTimeout time.Duration
}

func NewMinter(client *Client, cfg MinterConfig) *Minter {
	m := &Minter{
		client:         client,
		contract:       common.HexToAddress(cfg.Contract),
		key:            cfg.PrivateKey,
		chainID:        big.NewInt(cfg.ChainID),
		explorerURL:    cfg.ExplorerURL,
		confirmations:  cfg.Confirmations,
		pollInterval:   cfg.PollInterval,
		receiptTimeout: cfg.ReceiptTimeout,
	}
	switch {
	case cfg.PrivateKey != nil:
		admin := crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey)
		m.admin = &admin
	case IsAddress(cfg.Admin):
		admin := common.HexToAddress(cfg.Admin)
		m.admin = &admin
	}
	return m
}

// Mint sends adminMint(to, tokenURI) and waits for it to be mined. A missing
// Transfer log leaves TokenID empty without failing the mint. Failures after the
// transaction was accepted wrap ErrUnconfirmed unless the receipt shows a revert.
func (m *Minter) Mint(ctx context.Context, to, tokenURI string) (*MintResult, error) {
	data, err := EncodeAdminMint(to, tokenURI)
	if err != nil {
		return nil, err
	}

	hash, err := m.send(ctx, data)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to send mint transaction: to=%s, contract=%s, error=%v", to, m.contract.Hex(), err)
		return nil, fmt.Errorf("failed to send mint transaction: %w", err)
	}
	logger.GlobalLogger.Printf("Mint transaction sent: hash=%s, to=%s", hash.Hex(), to)

	receipt, err := m.client.WaitForReceipt(ctx, hash, m.confirmations, m.pollInterval, m.receiptTimeout)
	if errors.Is(err, ErrTransactionReverted) {
		logger.GlobalLogger.Errorf("Mint transaction reverted: hash=%s", hash.Hex())
		return nil, fmt.Errorf("mint transaction %s: %w", hash.Hex(), err)
	}
	if err != nil {
		logger.GlobalLogger.Errorf("Mint transaction not confirmed: hash=%s, error=%v", hash.Hex(), err)
		return nil, fmt.Errorf("mint transaction %s: %w: %w", hash.Hex(), ErrUnconfirmed, err)
	}

	result := &MintResult{TransactionHash: hash.Hex(), Receipt: receipt}
	if id, ok := TokenIDFromReceipt(receipt, m.contract); ok {
		result.TokenID = id.String()
	} else {
		logger.GlobalLogger.Warnf("No Transfer event in mint receipt: hash=%s", hash.Hex())
	}
	return result, nil
}

func (m *Minter) send(ctx context.Context, data []byte) (common.Hash, error) {
	if m.key != nil {
		return m.client.SignAndSend(ctx, m.key, m.chainID, m.contract, data)
	}
	return m.client.SendTransaction(ctx, TxArgs{From: m.admin, To: m.contract, Data: data})
}

func (m *Minter) ExplorerURL(kind, hash string) string {
	return ExplorerURL(m.explorerURL, kind, hash)
}

func (m *Minter) Contract() string {
	return m.contract.Hex()
}
