// Package dedup derives the deterministic identity used to suppress
// duplicate imports. Two transactions with identical observed (date,
// amount, description, account) collapse to the same key.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Key computes the dedup digest from canonicalized values: ISO date,
// amount fixed to two decimal places, raw description, and account ID.
// Hashing post-normalization values means "100.00" and "100,00" collide as
// the same logical transaction. The digest is stable across runs and
// process restarts.
func Key(date time.Time, amount decimal.Decimal, description string, accountID int64) string {
	payload := fmt.Sprintf("%s|%s|%s|%d",
		date.Format("2006-01-02"),
		amount.StringFixed(2),
		description,
		accountID,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
