// Package chain talks to an EVM chain over JSON-RPC: it encodes the PropertyNFT
// adminMint call, sends it, waits for the receipt and recovers the minted token id.
package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// propertyNFTABI is the subset of the PropertyNFT contract this service calls.
const propertyNFTABI = `[
	{
		"type": "function",
		"name": "adminMint",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "tokenURI", "type": "string"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "event",
		"name": "Transfer",
		"anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "tokenId", "type": "uint256", "indexed": true}
		]
	}
]`

var propertyNFT = mustParseABI(propertyNFTABI)

// TransferEventTopic is keccak256("Transfer(address,address,uint256)").
var TransferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("chain: invalid contract ABI: %v", err))
	}
	return parsed
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// EncodeAdminMint ABI-encodes adminMint(address to, string tokenURI).
func EncodeAdminMint(to, tokenURI string) ([]byte, error) {
	if !IsAddress(to) {
		return nil, fmt.Errorf("invalid recipient address %q", to)
	}
	data, err := propertyNFT.Pack("adminMint", common.HexToAddress(to), tokenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to encode adminMint: %w", err)
	}
	return data, nil
}

type transferEvent struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

// TokenIDFromReceipt returns the token id of the first ERC-721 Transfer log,
// restricted to logs emitted by contract when contract is non-zero.
func TokenIDFromReceipt(receipt *types.Receipt, contract common.Address) (*big.Int, bool) {
	if receipt == nil {
		return nil, false
	}
	indexed := abi.Arguments{}
	for _, arg := range propertyNFT.Events["Transfer"].Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	for _, log := range receipt.Logs {
		if log == nil || len(log.Topics) != 4 || log.Topics[0] != TransferEventTopic {
			continue
		}
		if contract != (common.Address{}) && log.Address != contract {
			continue
		}
		var ev transferEvent
		if err := abi.ParseTopics(&ev, indexed, log.Topics[1:]); err != nil {
			return nil, false
		}
		return ev.TokenId, true
	}
	return nil, false
}

// ExplorerURL links a transaction, address or token on the block explorer.
func ExplorerURL(base, kind, hash string) string {
	base = strings.TrimRight(base, "/")
	switch kind {
	case "tx", "address", "token":
		return base + "/" + kind + "/" + hash
	default:
		return base
	}
}
