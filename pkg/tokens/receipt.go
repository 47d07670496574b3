package tokens

import (
	"github.com/shopspring/decimal"
)

// ReceiptToken mirrors staked value 1:1. It can only move between a holder and
// the engine account; transfers between two ordinary holders fail. Mint and
// burn are reserved for the engine itself.
type ReceiptToken struct {
	ledger        *Ledger
	engineAccount string
}

func NewReceiptToken(name string, decimals int32, engineAccount string) *ReceiptToken {
	return &ReceiptToken{
		ledger:        NewLedger(name, decimals),
		engineAccount: engineAccount,
	}
}

func (r *ReceiptToken) Name() string {
	return r.ledger.Name()
}

func (r *ReceiptToken) Decimals() int32 {
	return r.ledger.Decimals()
}

func (r *ReceiptToken) EngineAccount() string {
	return r.engineAccount
}

func (r *ReceiptToken) BalanceOf(account string) decimal.Decimal {
	return r.ledger.BalanceOf(account)
}

func (r *ReceiptToken) Transfer(from, to string, amount decimal.Decimal) error {
	if from != r.engineAccount && to != r.engineAccount {
		return ErrNonTransferable
	}
	return r.ledger.Transfer(from, to, amount)
}

func (r *ReceiptToken) TransferFrom(spender, from, to string, amount decimal.Decimal) error {
	if from != r.engineAccount && to != r.engineAccount {
		return ErrNonTransferable
	}
	return r.ledger.TransferFrom(spender, from, to, amount)
}

func (r *ReceiptToken) Approve(owner, spender string, amount decimal.Decimal) {
	r.ledger.Approve(owner, spender, amount)
}

func (r *ReceiptToken) Allowance(owner, spender string) decimal.Decimal {
	return r.ledger.Allowance(owner, spender)
}

// Mint credits receipt tokens against a new stake.
func (r *ReceiptToken) Mint(to string, amount decimal.Decimal) {
	r.ledger.Mint(to, amount)
}

// BurnFrom destroys receipt tokens using the engine's allowance, mirroring an
// unstake.
func (r *ReceiptToken) BurnFrom(owner string, amount decimal.Decimal) error {
	if r.ledger.Allowance(owner, r.engineAccount).LessThan(amount) {
		return ErrInsufficientAllowance
	}
	if err := r.ledger.Burn(owner, amount); err != nil {
		return err
	}
	r.ledger.Approve(owner, r.engineAccount, r.ledger.Allowance(owner, r.engineAccount).Sub(amount))
	return nil
}
