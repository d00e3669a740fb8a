package registry

import (
	"context"

	"github.com/ctoken-xyz/go-ctoken/journal"
	"github.com/ctoken-xyz/go-ctoken/relation"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// record is the constraint state of one token. Substructures are created
// lazily on first use and live until the token is burned; burn deletes the
// whole record in one step, whitelist included. Read accessors tolerate a
// nil receiver so queries on tokens without a record fall through to the
// defaults (transferable, burnable, unlocked, no dependencies).
type record struct {
	nontransferable bool
	nonburnable     bool
	deps            *relation.Index[token.Ref]
	whitelist       map[token.Address]bool
	lockedTo        *token.Ref
	lockedBy        *relation.Index[token.Ref]
}

func (rec *record) transferable() bool {
	return rec == nil || !rec.nontransferable
}

func (rec *record) burnable() bool {
	return rec == nil || !rec.nonburnable
}

func (rec *record) dependsOn(ref token.Ref) bool {
	return rec != nil && rec.deps.Contains(ref)
}

func (rec *record) dependencies() []token.Ref {
	if rec == nil {
		return nil
	}
	return rec.deps.Items()
}

func (rec *record) whitelisted(addr token.Address) bool {
	return rec != nil && rec.whitelist[addr]
}

// locked returns a copy of the lock reference, or nil.
func (rec *record) locked() *token.Ref {
	if rec == nil || rec.lockedTo == nil {
		return nil
	}
	ref := *rec.lockedTo
	return &ref
}

func (rec *record) lockedByContains(ref token.Ref) bool {
	return rec != nil && rec.lockedBy.Contains(ref)
}

// lockedTokens returns the tokens locked to this one, in slot order.
func (rec *record) lockedTokens() []token.Ref {
	if rec == nil {
		return nil
	}
	return rec.lockedBy.Items()
}

// rec returns the token's record, or nil if it has none.
func (r *Registry) rec(id token.ID) *record {
	return r.records[id]
}

// ensureRec returns the token's record, creating it lazily. Creation is
// recorded on the transaction so a failing operation leaves no empty
// record behind.
func (r *Registry) ensureRec(ctx context.Context, id token.ID) *record {
	rec := r.records[id]
	if rec != nil {
		return rec
	}
	rec = &record{}
	journal.From(ctx).Record(func() { delete(r.records, id) })
	r.records[id] = rec
	return rec
}

// saveDeps snapshots the dependency index for undo before a mutation.
func saveDeps(ctx context.Context, rec *record) {
	saved := rec.deps.Clone()
	journal.From(ctx).Record(func() { rec.deps = saved })
}

// saveLockedBy snapshots the reverse lock index for undo before a mutation.
func saveLockedBy(ctx context.Context, rec *record) {
	saved := rec.lockedBy.Clone()
	journal.From(ctx).Record(func() { rec.lockedBy = saved })
}
