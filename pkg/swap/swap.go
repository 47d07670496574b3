package swap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/blobfi/staking-engine/pkg/numbers"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/shopspring/decimal"
)

var (
	ErrSlippageExceeded = errors.New("swap output below minimum")
	ErrNoPath           = errors.New("no swap path configured for token pair")
)

// Swapper is the DEX-router collaborator: exchange amountIn of tokenIn for
// tokenOut, crediting the recipient and failing if the output would fall below
// minAmountOut.
type Swapper interface {
	Swap(tokenIn, tokenOut tokens.Token, from, to string, amountIn, minAmountOut decimal.Decimal) (decimal.Decimal, error)
}

// FixedRateRouter is an in-memory router with per-pair exchange rates and
// configured multi-hop paths. It plays the role the mock DEX router plays for
// the on-chain engine: deterministic quotes, no liquidity dynamics. Liquidity
// lives in the router's own holding account, named at construction so it
// cannot collide with a user account.
type FixedRateRouter struct {
	mu      sync.Mutex
	account string
	rates   map[string]decimal.Decimal
	paths   map[string][]tokens.Token
}

func NewFixedRateRouter(account string) *FixedRateRouter {
	return &FixedRateRouter{
		account: account,
		rates:   make(map[string]decimal.Decimal),
		paths:   make(map[string][]tokens.Token),
	}
}

// Account returns the router's liquidity holding account.
func (r *FixedRateRouter) Account() string {
	return r.account
}

func pairKey(in, out tokens.Token) string {
	return fmt.Sprintf("%s/%s", in.Name(), out.Name())
}

// SetRate fixes the tokenOut-per-tokenIn quote for a direct pair.
func (r *FixedRateRouter) SetRate(tokenIn, tokenOut tokens.Token, rate decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[pairKey(tokenIn, tokenOut)] = rate
}

// SetTokenPath registers the hop sequence used to swap path[0] into
// path[len-1]. Every adjacent pair must have a rate configured.
func (r *FixedRateRouter) SetTokenPath(path []tokens.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(path) < 2 {
		return
	}
	r.paths[pairKey(path[0], path[len(path)-1])] = path
}

func (r *FixedRateRouter) pathFor(tokenIn, tokenOut tokens.Token) []tokens.Token {
	if p, ok := r.paths[pairKey(tokenIn, tokenOut)]; ok {
		return p
	}
	return []tokens.Token{tokenIn, tokenOut}
}

func (r *FixedRateRouter) Swap(tokenIn, tokenOut tokens.Token, from, to string, amountIn, minAmountOut decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.pathFor(tokenIn, tokenOut)
	amountOut := amountIn
	for i := 0; i < len(path)-1; i++ {
		rate, ok := r.rates[pairKey(path[i], path[i+1])]
		if !ok {
			return decimal.Zero, ErrNoPath
		}
		amountOut = numbers.TruncateToDecimals(amountOut.Mul(rate), path[i+1].Decimals())
	}

	if amountOut.LessThan(minAmountOut) {
		return decimal.Zero, ErrSlippageExceeded
	}

	if err := tokenIn.Transfer(from, r.account, amountIn); err != nil {
		return decimal.Zero, err
	}
	if err := tokenOut.Transfer(r.account, to, amountOut); err != nil {
		// Undo the input leg so a failed swap leaves balances untouched.
		_ = tokenIn.Transfer(r.account, from, amountIn)
		return decimal.Zero, err
	}
	return amountOut, nil
}
