package registry

import (
	"context"
	"fmt"

	"github.com/ctoken-xyz/go-ctoken/eventlog"
	"github.com/ctoken-xyz/go-ctoken/journal"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// TransferFrom moves the token from from to to, cascading the move to every
// token locked to it, across registries, so locked tokens always travel
// with their locker. If the token is itself locked, authorization inverts:
// only the locking registry may move it, owner and approved cannot. The
// whole cascade commits or unwinds as one unit.
func (r *Registry) TransferFrom(ctx context.Context, caller token.Caller, from, to token.Address, id token.ID) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.transferFrom(ctx, caller, from, to, id)
	return journal.Finish(tx, owned, err)
}

// SafeTransferFrom is TransferFrom with an opaque data payload recorded on
// the committed event. There is no receiver-hook notion in this engine;
// the gate and cascade semantics are identical.
func (r *Registry) SafeTransferFrom(ctx context.Context, caller token.Caller, from, to token.Address, id token.ID, data []byte) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.transferFromData(ctx, caller, from, to, id, data)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) transferFrom(ctx context.Context, caller token.Caller, from, to token.Address, id token.ID) error {
	return r.transferFromData(ctx, caller, from, to, id, nil)
}

func (r *Registry) transferFromData(ctx context.Context, caller token.Caller, from, to token.Address, id token.ID, data []byte) error {
	if _, err := r.ledger.OwnerOf(id); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	rec := r.rec(id)
	if rec != nil && rec.lockedTo != nil {
		if !caller.IsRegistry() || caller.Registry != rec.lockedTo.Registry {
			return fmt.Errorf("%w: token %s is locked to %s", ErrLockedCallerMismatch, id, rec.lockedTo)
		}
	} else if !r.isApprovedOrOwner(caller, id) {
		return ErrUnauthorized
	}

	if err := r.checkTransferGate(ctx, id, to); err != nil {
		return err
	}

	// Locked tokens move first; each leg runs its own gate and may cascade
	// further, possibly reentering this registry.
	for _, ref := range rec.lockedTokens() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return err
		}
		if err := c.TransferFrom(ctx, token.RegistryCaller(r.id), from, to, ref.ID); err != nil {
			return err
		}
	}

	if err := r.ledger.Transfer(ctx, from, to, id); err != nil {
		return err
	}

	ev := eventlog.New(r.id, eventlog.TypeTransferred, id)
	ev.From = from
	ev.To = to
	if len(data) > 0 {
		ev.Note = fmt.Sprintf("data=%x", data)
	}
	r.emit(ctx, ev)
	return nil
}

// Burn destroys the token. Every token locked to it is burned first:
// locking implies shared fate on burn, not mere unlocking. The token must
// pass the burn gate (own flag plus dependencies), and if any cascaded
// token is not burnable the whole operation fails with no state change.
// The record with all four substructures is deleted together with the
// ledger entry.
func (r *Registry) Burn(ctx context.Context, caller token.Caller, id token.ID) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.burn(ctx, caller, id)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) burn(ctx context.Context, caller token.Caller, id token.ID) error {
	owner, err := r.ledger.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}

	rec := r.rec(id)
	if rec != nil && rec.lockedTo != nil {
		if !caller.IsRegistry() || caller.Registry != rec.lockedTo.Registry {
			return fmt.Errorf("%w: token %s is locked to %s", ErrLockedCallerMismatch, id, rec.lockedTo)
		}
	} else if !r.isApprovedOrOwner(caller, id) {
		return ErrUnauthorized
	}

	if err := r.checkBurnGate(ctx, id); err != nil {
		return err
	}

	for _, ref := range rec.lockedTokens() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return err
		}
		if err := c.Burn(ctx, token.RegistryCaller(r.id), ref.ID); err != nil {
			return err
		}
	}

	if rec != nil {
		saved := rec
		journal.From(ctx).Record(func() { r.records[id] = saved })
		delete(r.records, id)
	}

	if err := r.ledger.Burn(ctx, id); err != nil {
		return err
	}

	ev := eventlog.New(r.id, eventlog.TypeBurned, id)
	ev.From = owner
	r.emit(ctx, ev)
	return nil
}
