// Package identity resolves Slack user and conversation ids to descriptive
// data, remembering every answer for the rest of the run.
package identity

import (
	"context"
	"errors"
	"fmt"

	"archive_slack/internal/logger"
)

// ErrInvalidKind is returned for a lookup of an unknown Kind.
var ErrInvalidKind = errors.New("invalid lookup kind")

// Fetcher performs the remote lookups behind the cache.
type Fetcher interface {
	FetchUser(ctx context.Context, id string) (*UserIdentity, error)
	FetchChannel(ctx context.Context, id string) (*ChannelIdentity, error)
	FetchGroup(ctx context.Context, id string) (*ChannelIdentity, error)
	FetchConversationMembers(ctx context.Context, id string) ([]string, error)
}

type cacheKey struct {
	kind Kind
	id   string
}

// Resolver memoizes lookups so every distinct id costs at most one remote
// call per run. It is not safe for concurrent use.
type Resolver struct {
	fetcher Fetcher
	cache   map[cacheKey]*CachedIdentity
}

// NewResolver returns a Resolver with an empty cache.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		cache:   make(map[cacheKey]*CachedIdentity),
	}
}

// Lookup returns the cached identity for (kind, id), fetching it on first use.
func (r *Resolver) Lookup(ctx context.Context, kind Kind, id string) (*CachedIdentity, error) {
	switch kind {
	case KindUser, KindChannel, KindGroup, KindConversation:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	key := cacheKey{kind: kind, id: id}
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}

	logger.Debug.Printf("Resolving %s %s", kind, id)
	entry := &CachedIdentity{Kind: kind, ID: id}
	var err error
	switch kind {
	case KindUser:
		entry.User, err = r.fetcher.FetchUser(ctx, id)
	case KindChannel:
		entry.Channel, err = r.fetcher.FetchChannel(ctx, id)
	case KindGroup:
		entry.Channel, err = r.fetcher.FetchGroup(ctx, id)
	case KindConversation:
		entry.Members, err = r.fetcher.FetchConversationMembers(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s %s: %w", kind, id, err)
	}
	if (kind == KindUser && entry.User == nil) || ((kind == KindChannel || kind == KindGroup) && entry.Channel == nil) {
		return nil, fmt.Errorf("failed to resolve %s %s: empty response", kind, id)
	}
	if entry.User != nil && entry.User.ID == "" {
		entry.User.ID = id
	}
	if entry.Channel != nil && entry.Channel.ID == "" {
		entry.Channel.ID = id
	}

	r.cache[key] = entry
	return entry, nil
}

func (r *Resolver) ResolveUser(ctx context.Context, id string) (UserIdentity, error) {
	entry, err := r.Lookup(ctx, KindUser, id)
	if err != nil {
		return UserIdentity{}, err
	}
	return *entry.User, nil
}

func (r *Resolver) ResolveChannel(ctx context.Context, id string) (ChannelIdentity, error) {
	entry, err := r.Lookup(ctx, KindChannel, id)
	if err != nil {
		return ChannelIdentity{}, err
	}
	return *entry.Channel, nil
}

func (r *Resolver) ResolveGroup(ctx context.Context, id string) (ChannelIdentity, error) {
	entry, err := r.Lookup(ctx, KindGroup, id)
	if err != nil {
		return ChannelIdentity{}, err
	}
	return *entry.Channel, nil
}

func (r *Resolver) ResolveConversationMembers(ctx context.Context, id string) ([]string, error) {
	entry, err := r.Lookup(ctx, KindConversation, id)
	if err != nil {
		return nil, err
	}
	return entry.Members, nil
}

// Len reports how many identities are cached.
func (r *Resolver) Len() int {
	return len(r.cache)
}
