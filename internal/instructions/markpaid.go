package instructions

import (
	"context"
	"fmt"
	"time"

	"github.com/tradekart/tradekart-backend/pkg/redis"
)

// FlagTracker stores the buyer's advisory "I have paid this" checkmarks in
// redis. The flags never touch order rows; they expire on their own and
// settlement state stays with the payment intents.
type FlagTracker struct {
	store redis.FlagStore
	ttl   time.Duration
}

// NewFlagTracker wires the tracker.
func NewFlagTracker(store redis.FlagStore, ttl time.Duration) (*FlagTracker, error) {
	if store == nil {
		return nil, fmt.Errorf("flag store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("flag ttl must be positive")
	}
	return &FlagTracker{store: store, ttl: ttl}, nil
}

// Mark sets the advisory flag for one order.
func (t *FlagTracker) Mark(ctx context.Context, groupID, orderNumber string) error {
	return t.store.Set(ctx, t.store.MarkPaidKey(groupID, orderNumber), "1", t.ttl)
}

// Unmark clears the advisory flag.
func (t *FlagTracker) Unmark(ctx context.Context, groupID, orderNumber string) error {
	return t.store.Del(ctx, t.store.MarkPaidKey(groupID, orderNumber))
}

// IsMarked reports the flag state; a missing key reads as unmarked.
func (t *FlagTracker) IsMarked(ctx context.Context, groupID, orderNumber string) (bool, error) {
	_, err := t.store.Get(ctx, t.store.MarkPaidKey(groupID, orderNumber))
	if redis.IsNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkedSet resolves the flags for a batch of orders in one pass.
func (t *FlagTracker) MarkedSet(ctx context.Context, groupID string, orderNumbers []string) (map[string]bool, error) {
	marked := make(map[string]bool, len(orderNumbers))
	for _, number := range orderNumbers {
		ok, err := t.IsMarked(ctx, groupID, number)
		if err != nil {
			return nil, err
		}
		marked[number] = ok
	}
	return marked, nil
}
