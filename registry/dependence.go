package registry

import (
	"context"
	"fmt"

	"github.com/ctoken-xyz/go-ctoken/eventlog"
	"github.com/ctoken-xyz/go-ctoken/journal"
	"github.com/ctoken-xyz/go-ctoken/relation"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// SetDependence makes the token's transferability and burnability
// conditional on ref. Caller must be owner or approved.
func (r *Registry) SetDependence(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.setDependence(ctx, caller, id, ref)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) setDependence(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	if !r.ledger.Exists(id) {
		return fmt.Errorf("set dependence: %w", errUnknown(id))
	}
	if !r.isApprovedOrOwner(caller, id) {
		return ErrUnauthorized
	}

	rec := r.ensureRec(ctx, id)
	if rec.deps.Contains(ref) {
		return fmt.Errorf("%w: %s", ErrAlreadyDependent, ref)
	}

	saveDeps(ctx, rec)
	if rec.deps == nil {
		rec.deps = relation.New[token.Ref]()
	}
	rec.deps.Add(ref)

	ev := eventlog.New(r.id, eventlog.TypeDependenceSet, id)
	ev.Ref = &ref
	r.emit(ctx, ev)
	return nil
}

// RemoveDependence removes a dependency. The registry named in ref may
// always disclaim a dependency on itself; anyone else must be owner or
// approved, and the referenced token must currently report itself both
// transferable and burnable.
func (r *Registry) RemoveDependence(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.removeDependence(ctx, caller, id, ref)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) removeDependence(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error {
	rec := r.rec(id)
	if !rec.dependsOn(ref) {
		return fmt.Errorf("%w: %s", ErrNotDependent, ref)
	}

	if caller.IsRegistry() {
		if caller.Registry != ref.Registry {
			return fmt.Errorf("%w: registry %s may not disclaim a dependency on %s", ErrUnauthorized, caller.Registry, ref.Registry)
		}
	} else {
		if !r.isApprovedOrOwner(caller, id) {
			return ErrUnauthorized
		}
		c, err := r.contract(ref.Registry)
		if err != nil {
			return err
		}
		transferable, err := c.IsTokenTransferable(ctx, ref.ID)
		if err != nil {
			return err
		}
		burnable, err := c.IsTokenBurnable(ctx, ref.ID)
		if err != nil {
			return err
		}
		if !transferable || !burnable {
			return fmt.Errorf("%w: reference %s is still constrained", ErrUnauthorized, ref)
		}
	}

	saveDeps(ctx, rec)
	rec.deps.Remove(ref)

	ev := eventlog.New(r.id, eventlog.TypeDependenceRemoved, id)
	ev.Ref = &ref
	r.emit(ctx, ev)
	return nil
}

// IsDependent reports whether the token depends on ref.
func (r *Registry) IsDependent(id token.ID, ref token.Ref) bool {
	return r.rec(id).dependsOn(ref)
}

// Dependencies returns the token's dependencies in slot order.
func (r *Registry) Dependencies(id token.ID) []token.Ref {
	return r.rec(id).dependencies()
}

// SetTransferable flips the token's direct transferability flag. Caller
// must be owner or approved.
func (r *Registry) SetTransferable(ctx context.Context, caller token.Caller, id token.ID, transferable bool) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.setFlag(ctx, caller, id, transferable, true)
	return journal.Finish(tx, owned, err)
}

// SetBurnable flips the token's direct burnability flag. Caller must be
// owner or approved.
func (r *Registry) SetBurnable(ctx context.Context, caller token.Caller, id token.ID, burnable bool) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.setFlag(ctx, caller, id, burnable, false)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) setFlag(ctx context.Context, caller token.Caller, id token.ID, allow, transferFlag bool) error {
	if !r.ledger.Exists(id) {
		return fmt.Errorf("set flag: %w", errUnknown(id))
	}
	if !r.isApprovedOrOwner(caller, id) {
		return ErrUnauthorized
	}

	rec := r.ensureRec(ctx, id)
	ev := eventlog.New(r.id, eventlog.TypeFlagSet, id)
	if transferFlag {
		prev := rec.nontransferable
		journal.From(ctx).Record(func() { rec.nontransferable = prev })
		rec.nontransferable = !allow
		ev.Note = fmt.Sprintf("transferable=%t", allow)
	} else {
		prev := rec.nonburnable
		journal.From(ctx).Record(func() { rec.nonburnable = prev })
		rec.nonburnable = !allow
		ev.Note = fmt.Sprintf("burnable=%t", allow)
	}
	r.emit(ctx, ev)
	return nil
}

// IsTransferable reports the token's direct flag only; dependencies are
// not consulted. Tokens without a record default to transferable.
func (r *Registry) IsTransferable(id token.ID) bool {
	return r.rec(id).transferable()
}

// IsBurnable reports the token's direct flag only.
func (r *Registry) IsBurnable(id token.ID) bool {
	return r.rec(id).burnable()
}

// IsDependentTransferable reports whether every dependency reports itself
// token-transferable. The call recurses into each dependency's own
// registry, which in turn consults its dependencies: this is how
// transitive constraints propagate without any global graph walk.
func (r *Registry) IsDependentTransferable(ctx context.Context, id token.ID) (bool, error) {
	for _, ref := range r.rec(id).dependencies() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return false, err
		}
		ok, err := c.IsTokenTransferable(ctx, ref.ID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsDependentBurnable is the burn analog of IsDependentTransferable.
func (r *Registry) IsDependentBurnable(ctx context.Context, id token.ID) (bool, error) {
	for _, ref := range r.rec(id).dependencies() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return false, err
		}
		ok, err := c.IsTokenBurnable(ctx, ref.ID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsTokenTransferable combines the direct flag with the transitive
// dependency check.
func (r *Registry) IsTokenTransferable(ctx context.Context, id token.ID) (bool, error) {
	if !r.IsTransferable(id) {
		return false, nil
	}
	return r.IsDependentTransferable(ctx, id)
}

// IsTokenBurnable combines the direct flag with the transitive dependency
// check.
func (r *Registry) IsTokenBurnable(ctx context.Context, id token.ID) (bool, error) {
	if !r.IsBurnable(id) {
		return false, nil
	}
	return r.IsDependentBurnable(ctx, id)
}

// SetTransferWhitelist exempts (or stops exempting) an address from the
// token's nontransferable flag. Caller must be owner or approved.
func (r *Registry) SetTransferWhitelist(ctx context.Context, caller token.Caller, id token.ID, addr token.Address, on bool) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.setTransferWhitelist(ctx, caller, id, addr, on)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) setTransferWhitelist(ctx context.Context, caller token.Caller, id token.ID, addr token.Address, on bool) error {
	if !r.ledger.Exists(id) {
		return fmt.Errorf("set whitelist: %w", errUnknown(id))
	}
	if !r.isApprovedOrOwner(caller, id) {
		return ErrUnauthorized
	}

	rec := r.ensureRec(ctx, id)
	prev := rec.whitelist[addr]
	journal.From(ctx).Record(func() { setWhitelist(rec, addr, prev) })
	setWhitelist(rec, addr, on)

	ev := eventlog.New(r.id, eventlog.TypeWhitelistSet, id)
	ev.To = addr
	ev.Note = fmt.Sprintf("whitelisted=%t", on)
	r.emit(ctx, ev)
	return nil
}

func setWhitelist(rec *record, addr token.Address, on bool) {
	if on {
		if rec.whitelist == nil {
			rec.whitelist = make(map[token.Address]bool)
		}
		rec.whitelist[addr] = true
		return
	}
	delete(rec.whitelist, addr)
}

// IsAddressWhitelisted reports whether addr is exempt from the token's
// nontransferable flag.
func (r *Registry) IsAddressWhitelisted(id token.ID, addr token.Address) bool {
	return r.rec(id).whitelisted(addr)
}

// IsTransferableToAddress reports whether the token's own flag or
// whitelist admits the destination. Dependencies are not consulted.
func (r *Registry) IsTransferableToAddress(id token.ID, to token.Address) bool {
	rec := r.rec(id)
	return rec.transferable() || rec.whitelisted(to)
}

// IsDependentTransferableToAddress applies the address-aware check at
// every dependency hop.
func (r *Registry) IsDependentTransferableToAddress(ctx context.Context, id token.ID, to token.Address) (bool, error) {
	for _, ref := range r.rec(id).dependencies() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return false, err
		}
		ok, err := c.IsTokenTransferableToAddress(ctx, ref.ID, to)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsTokenTransferableToAddress is the exact predicate evaluated before any
// transfer: local flag or whitelist, plus every dependency's address-aware
// check.
func (r *Registry) IsTokenTransferableToAddress(ctx context.Context, id token.ID, to token.Address) (bool, error) {
	if !r.IsTransferableToAddress(id, to) {
		return false, nil
	}
	return r.IsDependentTransferableToAddress(ctx, id, to)
}

// checkTransferGate is the gate's error-reporting form: the failure names
// the deepest check that rejected the transfer.
func (r *Registry) checkTransferGate(ctx context.Context, id token.ID, to token.Address) error {
	if !r.IsTransferableToAddress(id, to) {
		return fmt.Errorf("%w: token %s, destination %s", ErrNotTransferableToAddress, id, to)
	}
	for _, ref := range r.rec(id).dependencies() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return err
		}
		ok, err := c.IsTokenTransferableToAddress(ctx, ref.ID, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: dependency %s", ErrNotTransferableToAddress, ref)
		}
	}
	return nil
}

// checkBurnGate is the burn analog of checkTransferGate.
func (r *Registry) checkBurnGate(ctx context.Context, id token.ID) error {
	if !r.IsBurnable(id) {
		return fmt.Errorf("%w: token %s", ErrNotBurnable, id)
	}
	for _, ref := range r.rec(id).dependencies() {
		c, err := r.contract(ref.Registry)
		if err != nil {
			return err
		}
		ok, err := c.IsTokenBurnable(ctx, ref.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: dependency %s", ErrNotBurnable, ref)
		}
	}
	return nil
}
