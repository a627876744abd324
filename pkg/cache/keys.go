package cache

import (
	"fmt"
	"strings"
)

// SessionKey is the key of one wizard session document.
func SessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// SessionWalletKey indexes the latest session opened by a wallet.
func SessionWalletKey(wallet string) string {
	return fmt.Sprintf("session:wallet:%s", NormalizeWallet(wallet))
}

// SessionLockKey guards one operation on a session, such as "mint".
func SessionLockKey(id, operation string) string {
	return fmt.Sprintf("lock:session:%s:%s", id, operation)
}

// NormalizeWallet lowercases a hex address so checksum casing does not split keys.
func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}
