package staking

import (
	"time"
)

// SubscribeAutoReinvest adds the caller to the auto-reinvest set. Subscribing
// twice is a no-op; iteration order is first-subscription order.
func (e *Engine) SubscribeAutoReinvest(user string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.subscribers.Get(user); ok {
		return
	}
	e.subscribers.Set(user, true)
}

// UnsubscribeAutoReinvest removes the caller from the auto-reinvest set.
func (e *Engine) UnsubscribeAutoReinvest(user string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers.Delete(user)
}

// SubscriberCount returns the size of the auto-reinvest set.
func (e *Engine) SubscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subscribers.Len()
}

// GetTotalPages returns the page count at the configured page size.
func (e *Engine) GetTotalPages() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPages(e.pageSize)
}

// GetTotalPagesFor returns the page count for an explicit page size.
func (e *Engine) GetTotalPagesFor(pageSize int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPages(pageSize)
}

func (e *Engine) totalPages(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (e.subscribers.Len() + pageSize - 1) / pageSize
}

// GetEligibleUsers returns one 0-indexed page of subscribers with their
// current claimable balance. Subscribers whose claimable balance is below the
// auto-reinvest threshold are filtered out of the page payload; an
// out-of-range page index yields an empty slice. Pages bound the work an
// off-chain keeper does per call.
func (e *Engine) GetEligibleUsers(pageIndex int, now time.Time) []EligibleUser {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]EligibleUser, 0, e.pageSize)
	if pageIndex < 0 {
		return out
	}
	start := pageIndex * e.pageSize
	end := start + e.pageSize

	i := 0
	for pair := e.subscribers.Oldest(); pair != nil; pair = pair.Next() {
		if i >= end {
			break
		}
		if i >= start {
			claimable, _ := e.collectClaimable(pair.Key, now)
			if claimable.GreaterThanOrEqual(e.autoReinvestThreshold) && !claimable.IsZero() {
				out = append(out, EligibleUser{User: pair.Key, Claimable: claimable})
			}
		}
		i++
	}
	return out
}
