package orderfeed

import (
	"context"
	"sync"
)

// FetchFor builds the fetch function for one user's order list.
type FetchFor func(userID string) Fetch

// Registry lazily starts one user feed per user and stops them all when its
// context is cancelled.
type Registry struct {
	ctx      context.Context
	fetchFor FetchFor

	mu    sync.Mutex
	feeds map[string]*Feed
}

func NewRegistry(ctx context.Context, fetchFor FetchFor) *Registry {
	return &Registry{ctx: ctx, fetchFor: fetchFor, feeds: map[string]*Feed{}}
}

// For returns the feed for a user, starting it on first use.
func (r *Registry) For(userID string) *Feed {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feeds[userID]; ok {
		return f
	}
	f := NewUserFeed(r.fetchFor(userID))
	r.feeds[userID] = f
	go f.Run(r.ctx)
	return f
}

// Invalidate kicks the user's feed if one is running. A userID of "" is a
// guest checkout with no feed to kick.
func (r *Registry) Invalidate(userID string) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	f, ok := r.feeds[userID]
	r.mu.Unlock()
	if ok {
		f.Invalidate()
	}
}
