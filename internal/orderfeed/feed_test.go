package orderfeed_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"warungjp/internal/domain"
	"warungjp/internal/orderfeed"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestFeedFetchesImmediatelyAndOnInvalidate(t *testing.T) {
	var calls atomic.Int64
	fetch := func() ([]domain.Order, error) {
		calls.Add(1)
		return []domain.Order{{ID: "ord-1"}}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := orderfeed.NewUserFeed(fetch)
	go f.Run(ctx)

	waitFor(t, func() bool { return calls.Load() >= 1 })
	orders, updatedAt, lastErr := f.Snapshot()
	if lastErr != nil || len(orders) != 1 || updatedAt.IsZero() {
		t.Fatalf("snapshot = %v %v %v", orders, updatedAt, lastErr)
	}

	f.Invalidate()
	waitFor(t, func() bool { return calls.Load() >= 2 })
}

func TestFeedPausedStillServesInvalidate(t *testing.T) {
	var calls atomic.Int64
	fetch := func() ([]domain.Order, error) {
		calls.Add(1)
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := orderfeed.NewUserFeed(fetch)
	go f.Run(ctx)
	waitFor(t, func() bool { return calls.Load() >= 1 })

	f.Pause()
	f.Invalidate()
	waitFor(t, func() bool { return calls.Load() >= 2 })

	f.Resume() // resume kicks another refresh
	waitFor(t, func() bool { return calls.Load() >= 3 })
}

func TestFeedKeepsLastGoodSnapshotOnFailure(t *testing.T) {
	var fail atomic.Bool
	var calls atomic.Int64
	fetch := func() ([]domain.Order, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, errors.New("store offline")
		}
		return []domain.Order{{ID: "ord-keep"}}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := orderfeed.NewAdminFeed(fetch)
	go f.Run(ctx)
	waitFor(t, func() bool { return calls.Load() >= 1 })

	fail.Store(true)
	f.Invalidate()
	waitFor(t, func() bool {
		_, _, lastErr := f.Snapshot()
		return lastErr != nil
	})

	orders, _, _ := f.Snapshot()
	if len(orders) != 1 || orders[0].ID != "ord-keep" {
		t.Fatalf("stale snapshot lost: %v", orders)
	}

	fail.Store(false)
	f.Invalidate()
	waitFor(t, func() bool {
		_, _, lastErr := f.Snapshot()
		return lastErr == nil
	})
}

func TestRegistryReusesFeedPerUser(t *testing.T) {
	var calls atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := orderfeed.NewRegistry(ctx, func(userID string) orderfeed.Fetch {
		return func() ([]domain.Order, error) {
			calls.Add(1)
			return nil, nil
		}
	})

	a := reg.For("u-dewi")
	if reg.For("u-dewi") != a {
		t.Fatal("same user must get the same feed")
	}
	if reg.For("u-admin") == a {
		t.Fatal("different users must get different feeds")
	}
	waitFor(t, func() bool { return calls.Load() >= 2 })
}
