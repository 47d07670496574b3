package tokens

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTransferFailed        = errors.New("token transfer failed: insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNonTransferable       = errors.New("receipt token is non-transferable")
	ErrInvalidAmount         = errors.New("invalid token amount")
)

// Token is the fungible-token surface the staking and feeding engines consume.
// Implementations must be safe for serialized use from a single engine
// instance; the in-memory Ledger below additionally locks so it can back
// several collaborators at once in tests.
type Token interface {
	Name() string
	Decimals() int32
	BalanceOf(account string) decimal.Decimal
	Transfer(from, to string, amount decimal.Decimal) error
	TransferFrom(spender, from, to string, amount decimal.Decimal) error
	Approve(owner, spender string, amount decimal.Decimal)
	Allowance(owner, spender string) decimal.Decimal
}
