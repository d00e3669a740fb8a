// Package journal provides the per-operation transaction that makes a
// top-level engine operation atomic across registry instances.
//
// A gate operation opens a transaction and threads it through the call tree
// on the context; cascaded calls into other registries join the same
// transaction. Every state mutation records an undo before it is applied.
// If any precondition anywhere in the cascade fails, the whole transaction
// unwinds, restoring every touched registry and the base ledger. Hooks
// registered with OnCommit (event emission, logging) run only if the
// top-level operation commits.
package journal

import "context"

type ctxKey struct{}

// Tx is the undo log for one top-level operation.
type Tx struct {
	undo     []func()
	onCommit []func()
}

// Begin returns a context carrying a transaction. If ctx already carries
// one, the existing transaction is returned and owned reports false: the
// caller is a nested leg of an enclosing operation and must leave commit or
// unwind to the owner.
func Begin(ctx context.Context) (context.Context, *Tx, bool) {
	if tx := From(ctx); tx != nil {
		return ctx, tx, false
	}
	tx := &Tx{}
	return context.WithValue(ctx, ctxKey{}, tx), tx, true
}

// From returns the transaction carried by ctx, or nil.
func From(ctx context.Context) *Tx {
	tx, _ := ctx.Value(ctxKey{}).(*Tx)
	return tx
}

// Record registers an undo for a mutation about to be applied. A nil
// receiver is a no-op, so mutations outside any transaction stay cheap.
func (tx *Tx) Record(undo func()) {
	if tx == nil {
		return
	}
	tx.undo = append(tx.undo, undo)
}

// OnCommit registers fn to run when the operation commits. On a nil
// receiver fn runs immediately: with no enclosing transaction the mutation
// is its own atomic unit.
func (tx *Tx) OnCommit(fn func()) {
	if tx == nil {
		fn()
		return
	}
	tx.onCommit = append(tx.onCommit, fn)
}

// Unwind rolls back every recorded mutation, most recent first, and drops
// the commit hooks.
func (tx *Tx) Unwind() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
	tx.onCommit = nil
}

// Commit discards the undo log and runs the commit hooks in registration
// order.
func (tx *Tx) Commit() {
	tx.undo = nil
	hooks := tx.onCommit
	tx.onCommit = nil
	for _, fn := range hooks {
		fn()
	}
}

// Finish resolves an owned transaction from the operation's result: unwind
// on error, commit otherwise. Not-owned transactions are left to their
// owner. Returns err unchanged for call-site convenience.
func Finish(tx *Tx, owned bool, err error) error {
	if !owned {
		return err
	}
	if err != nil {
		tx.Unwind()
		return err
	}
	tx.Commit()
	return nil
}
