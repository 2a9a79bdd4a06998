// Package destination chooses the local directory a file is archived into.
package destination

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"archive_slack/internal/files"
	"archive_slack/internal/identity"
	"archive_slack/internal/naming"
)

// ErrNoPartner is returned when a direct message has no participant other
// than the file owner.
var ErrNoPartner = errors.New("cannot retrieve instant message counterpart user")

// Identities is the part of the identity resolver destinations depend on.
type Identities interface {
	ResolveUser(ctx context.Context, id string) (identity.UserIdentity, error)
	ResolveChannel(ctx context.Context, id string) (identity.ChannelIdentity, error)
	ResolveGroup(ctx context.Context, id string) (identity.ChannelIdentity, error)
	ResolveConversationMembers(ctx context.Context, id string) ([]string, error)
}

// DirChecker reports whether a directory already exists.
type DirChecker interface {
	DirExists(path string) bool
}

// Candidate is one resolved scope a file could be archived under.
type Candidate struct {
	Kind    identity.Kind
	Dirname string
	Channel *identity.ChannelIdentity
	Partner *identity.UserIdentity
}

// Result lists every resolved scope in resolution order. Dir is the full path
// of the chosen destination; it is empty when the file has no scope.
type Result struct {
	Candidates []Candidate
	Dir        string
}

// Found reports whether a destination was chosen.
func (r Result) Found() bool {
	return r.Dir != ""
}

// Resolver folds a file's scopes into exactly one destination directory.
type Resolver struct {
	root       string
	identities Identities
	dirs       DirChecker
	includeIMs bool
}

// NewResolver creates a Resolver placing destinations below root.
func NewResolver(root string, identities Identities, dirs DirChecker, includeIMs bool) *Resolver {
	return &Resolver{
		root:       root,
		identities: identities,
		dirs:       dirs,
		includeIMs: includeIMs,
	}
}

// Resolve resolves the scopes of rec in the order IMs (when enabled), groups,
// channels. The last resolved candidate becomes the destination.
func (r *Resolver) Resolve(ctx context.Context, rec files.FileRecord, owner identity.UserIdentity) (Result, error) {
	var result Result

	if r.includeIMs {
		for _, id := range rec.IMIDs {
			c, err := r.imCandidate(ctx, id, owner)
			if err != nil {
				return Result{}, err
			}
			result.Candidates = append(result.Candidates, c)
		}
	}

	for _, id := range rec.GroupIDs {
		group, err := r.identities.ResolveGroup(ctx, id)
		if err != nil {
			return Result{}, err
		}
		result.Candidates = append(result.Candidates, Candidate{
			Kind:    identity.KindGroup,
			Dirname: scopeDirname(group),
			Channel: &group,
		})
	}

	for _, id := range rec.ChannelIDs {
		channel, err := r.identities.ResolveChannel(ctx, id)
		if err != nil {
			return Result{}, err
		}
		result.Candidates = append(result.Candidates, Candidate{
			Kind:    identity.KindChannel,
			Dirname: scopeDirname(channel),
			Channel: &channel,
		})
	}

	// TODO: files shared into several scopes are archived once, under the
	// last candidate; consider linking the artifact into the other scopes.
	if n := len(result.Candidates); n > 0 {
		result.Dir = filepath.Join(r.root, result.Candidates[n-1].Dirname)
	}
	return result, nil
}

func (r *Resolver) imCandidate(ctx context.Context, conversationID string, owner identity.UserIdentity) (Candidate, error) {
	members, err := r.identities.ResolveConversationMembers(ctx, conversationID)
	if err != nil {
		return Candidate{}, err
	}

	partnerID := ""
	for _, m := range members {
		if m != owner.ID {
			partnerID = m
			break
		}
	}
	if partnerID == "" {
		return Candidate{}, fmt.Errorf("%w: conversation %s", ErrNoPartner, conversationID)
	}

	partner, err := r.identities.ResolveUser(ctx, partnerID)
	if err != nil {
		return Candidate{}, err
	}

	return Candidate{
		Kind:    identity.KindConversation,
		Dirname: r.imDirname(owner, partner),
		Partner: &partner,
	}, nil
}

// imDirname names the directory for a pair of users independently of which
// one owns the file: the participant with the lower id comes first. An
// existing directory using the reversed order is reused.
func (r *Resolver) imDirname(owner, partner identity.UserIdentity) string {
	first, second := owner, partner
	if second.ID < first.ID {
		first, second = second, first
	}

	canonical := pairDirname(first, second)
	if r.dirs.DirExists(filepath.Join(r.root, canonical)) {
		return canonical
	}
	reversed := pairDirname(second, first)
	if r.dirs.DirExists(filepath.Join(r.root, reversed)) {
		return reversed
	}
	return canonical
}

func pairDirname(a, b identity.UserIdentity) string {
	return naming.Truncate(naming.Normalize("im "+a.BestName()+" with "+b.BestName(), ""), naming.MaxDirnameLength)
}

func scopeDirname(ch identity.ChannelIdentity) string {
	if ch.Name == "" {
		return ch.ID
	}
	return naming.Truncate(ch.Name, naming.MaxDirnameLength)
}
