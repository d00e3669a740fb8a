package registry

import (
	"context"
	"fmt"

	"github.com/ctoken-xyz/go-ctoken/eventlog"
	"github.com/ctoken-xyz/go-ctoken/journal"
	"github.com/ctoken-xyz/go-ctoken/relation"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// Lock binds the token's transfer/burn lifecycle to ref: from now on the
// token travels and dies with ref, and only ref's registry may move, burn
// or unlock it. Both tokens must have the same owner. Only the immediate
// two-token cycle is rejected as a deadlock; longer cycles are not
// detected.
func (r *Registry) Lock(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.lock(ctx, caller, id, ref)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) lock(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	owner, err := r.ledger.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if !r.isApprovedOrOwner(caller, id) {
		return ErrUnauthorized
	}

	rec := r.ensureRec(ctx, id)
	if rec.lockedTo != nil {
		return fmt.Errorf("%w: token %s is locked to %s", ErrAlreadyLocked, id, rec.lockedTo)
	}

	c, err := r.contract(ref.Registry)
	if err != nil {
		return err
	}
	refOwner, err := c.OwnerOf(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("lock reference: %w", err)
	}
	if refOwner != owner {
		return fmt.Errorf("%w: %s owns %s, %s owns %s", ErrDifferentOwners, owner, id, refOwner, ref)
	}

	self := r.ref(id)
	back, err := c.LockedTo(ctx, ref.ID)
	if err != nil {
		return err
	}
	if back != nil && *back == self {
		return fmt.Errorf("%w: %s is already locked to %s", ErrDeadlockDetected, ref, self)
	}

	prev := rec.lockedTo
	journal.From(ctx).Record(func() { rec.lockedTo = prev })
	locked := ref
	rec.lockedTo = &locked

	// The remote side revalidates ownership and rejects a duplicate
	// reverse edge; any failure there unwinds the lockedTo write above.
	if err := c.AddLockedToken(ctx, token.RegistryCaller(r.id), ref.ID, self); err != nil {
		return err
	}

	ev := eventlog.New(r.id, eventlog.TypeLocked, id)
	ev.Ref = &locked
	r.emit(ctx, ev)
	return nil
}

// Unlock clears the token's lock. Unlocking is a privilege of the locking
// side: only the registry currently recorded as the locker may call it,
// owners cannot self-unlock.
func (r *Registry) Unlock(ctx context.Context, caller token.Caller, id token.ID) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.unlockToken(ctx, caller, id)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) unlockToken(ctx context.Context, caller token.Caller, id token.ID) error {
	rec := r.rec(id)
	if rec == nil || rec.lockedTo == nil {
		return fmt.Errorf("%w: token %s", ErrNotLocked, id)
	}
	if !caller.IsRegistry() || caller.Registry != rec.lockedTo.Registry {
		return ErrCallerNotLockingContract
	}

	prev := rec.lockedTo
	journal.From(ctx).Record(func() { rec.lockedTo = prev })
	rec.lockedTo = nil

	ev := eventlog.New(r.id, eventlog.TypeUnlocked, id)
	ev.Ref = prev
	r.emit(ctx, ev)
	return nil
}

// AddLockedToken records the reverse edge of a lock initiated by the
// registry named in ref. A registry cannot have a reverse edge injected by
// anyone else, and the same-owner requirement is checked again here: the
// initiating side is not trusted.
func (r *Registry) AddLockedToken(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.addLockedToken(ctx, caller, id, ref)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) addLockedToken(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	owner, err := r.ledger.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("add locked token: %w", err)
	}
	if !caller.IsRegistry() || caller.Registry != ref.Registry {
		return fmt.Errorf("%w: reverse lock edges may only be added by the initiating registry", ErrUnauthorized)
	}

	c, err := r.contract(ref.Registry)
	if err != nil {
		return err
	}
	refOwner, err := c.OwnerOf(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("add locked token reference: %w", err)
	}
	if refOwner != owner {
		return fmt.Errorf("%w: %s owns %s, %s owns %s", ErrDifferentOwners, owner, id, refOwner, ref)
	}

	rec := r.ensureRec(ctx, id)
	if rec.lockedBy.Contains(ref) {
		return fmt.Errorf("%w: reverse edge for %s already recorded", ErrAlreadyLocked, ref)
	}

	saveLockedBy(ctx, rec)
	if rec.lockedBy == nil {
		rec.lockedBy = relation.New[token.Ref]()
	}
	rec.lockedBy.Add(ref)
	return nil
}

// RemoveLockedToken releases one token locked to this one: the reverse
// edge is dropped and the locked token's own registry is told to unlock
// it. Caller must be owner or approved for the locking token, or the
// engine itself during teardown.
func (r *Registry) RemoveLockedToken(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.removeLockedToken(ctx, caller, id, ref)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) removeLockedToken(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	rec := r.rec(id)
	if !rec.lockedByContains(ref) {
		return fmt.Errorf("%w: %s is not locked to %s", ErrNotLocked, ref, id)
	}
	if !r.isApprovedOrOwner(caller, id) && !(caller.IsRegistry() && caller.Registry == r.id) {
		return ErrUnauthorized
	}

	saveLockedBy(ctx, rec)
	rec.lockedBy.Remove(ref)

	c, err := r.contract(ref.Registry)
	if err != nil {
		return err
	}
	return c.Unlock(ctx, token.RegistryCaller(r.id), ref.ID)
}

// IsLocked returns the reference the token is locked to, or nil if it is
// unlocked.
func (r *Registry) IsLocked(id token.ID) *token.Ref {
	return r.rec(id).locked()
}

// LockedTo is the Contract form of IsLocked.
func (r *Registry) LockedTo(_ context.Context, id token.ID) (*token.Ref, error) {
	return r.rec(id).locked(), nil
}

// LockedTokens returns the tokens locked to this one, in slot order.
func (r *Registry) LockedTokens(id token.ID) []token.Ref {
	return r.rec(id).lockedTokens()
}
