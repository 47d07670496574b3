package tokens

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is an in-memory fungible token: balances plus approve/allowance
// bookkeeping. It stands in for the external token contract the engine
// collaborates with.
type Ledger struct {
	mu         sync.Mutex
	name       string
	decimals   int32
	balances   map[string]decimal.Decimal
	allowances map[string]map[string]decimal.Decimal
}

func NewLedger(name string, decimals int32) *Ledger {
	return &Ledger{
		name:       name,
		decimals:   decimals,
		balances:   make(map[string]decimal.Decimal),
		allowances: make(map[string]map[string]decimal.Decimal),
	}
}

func (l *Ledger) Name() string {
	return l.name
}

func (l *Ledger) Decimals() int32 {
	return l.decimals
}

func (l *Ledger) BalanceOf(account string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOf(account)
}

func (l *Ledger) balanceOf(account string) decimal.Decimal {
	if b, ok := l.balances[account]; ok {
		return b
	}
	return decimal.Zero
}

// Mint credits new supply to an account.
func (l *Ledger) Mint(to string, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] = l.balanceOf(to).Add(amount)
}

// Burn destroys supply held by an account.
func (l *Ledger) Burn(from string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balanceOf(from).LessThan(amount) {
		return ErrTransferFailed
	}
	l.balances[from] = l.balanceOf(from).Sub(amount)
	return nil
}

func (l *Ledger) Transfer(from, to string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, to, amount)
}

func (l *Ledger) transfer(from, to string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if l.balanceOf(from).LessThan(amount) {
		return ErrTransferFailed
	}
	l.balances[from] = l.balanceOf(from).Sub(amount)
	l.balances[to] = l.balanceOf(to).Add(amount)
	return nil
}

func (l *Ledger) Approve(owner, spender string, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.allowances[owner]; !ok {
		l.allowances[owner] = make(map[string]decimal.Decimal)
	}
	l.allowances[owner][spender] = amount
}

func (l *Ledger) Allowance(owner, spender string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowance(owner, spender)
}

func (l *Ledger) allowance(owner, spender string) decimal.Decimal {
	if m, ok := l.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return a
		}
	}
	return decimal.Zero
}

// TransferFrom moves tokens on behalf of spender, consuming allowance.
func (l *Ledger) TransferFrom(spender, from, to string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowance(from, spender).LessThan(amount) {
		return ErrInsufficientAllowance
	}
	if err := l.transfer(from, to, amount); err != nil {
		return err
	}
	l.allowances[from][spender] = l.allowance(from, spender).Sub(amount)
	return nil
}
