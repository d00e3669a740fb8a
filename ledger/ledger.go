// Package ledger implements the base non-fungible ownership ledger the
// constraint engine is layered on: mint, burn, raw transfer, approvals and
// balance bookkeeping. It performs no constraint checking of its own; the
// registry gate decides whether an operation may happen, the ledger only
// records that it did.
//
// All mutations record undo functions on the transaction carried by the
// context, so a failing cascade above the ledger restores it exactly.
package ledger

import (
	"context"

	"github.com/ctoken-xyz/go-ctoken/journal"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// Ledger holds ownership bookkeeping for one registry instance.
type Ledger struct {
	owners    map[token.ID]token.Address
	approved  map[token.ID]token.Address
	operators map[token.Address]map[token.Address]bool
	balances  map[token.Address]int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		owners:    make(map[token.ID]token.Address),
		approved:  make(map[token.ID]token.Address),
		operators: make(map[token.Address]map[token.Address]bool),
		balances:  make(map[token.Address]int),
	}
}

// Exists reports whether the token id is currently minted.
func (l *Ledger) Exists(id token.ID) bool {
	_, ok := l.owners[id]
	return ok
}

// TokenIDs returns the ids of all currently minted tokens, in no
// particular order.
func (l *Ledger) TokenIDs() []token.ID {
	out := make([]token.ID, 0, len(l.owners))
	for id := range l.owners {
		out = append(out, id)
	}
	return out
}

// OwnerOf returns the current owner of the token.
func (l *Ledger) OwnerOf(id token.ID) (token.Address, error) {
	owner, ok := l.owners[id]
	if !ok {
		return token.ZeroAddress, ErrUnknownToken
	}
	return owner, nil
}

// BalanceOf returns the number of tokens held by addr.
func (l *Ledger) BalanceOf(addr token.Address) int {
	return l.balances[addr]
}

// GetApproved returns the single approved address for the token, if any.
func (l *Ledger) GetApproved(id token.ID) token.Address {
	return l.approved[id]
}

// IsApprovedForAll reports whether operator may act on all of owner's
// tokens.
func (l *Ledger) IsApprovedForAll(owner, operator token.Address) bool {
	return l.operators[owner][operator]
}

// IsAuthorized reports whether addr is the owner, the approved address, or
// an approved operator for the token. Unknown tokens authorize nobody.
func (l *Ledger) IsAuthorized(addr token.Address, id token.ID) bool {
	if addr == token.ZeroAddress {
		return false
	}
	owner, ok := l.owners[id]
	if !ok {
		return false
	}
	return addr == owner || addr == l.approved[id] || l.operators[owner][addr]
}

// Mint creates a token owned by owner.
func (l *Ledger) Mint(ctx context.Context, owner token.Address, id token.ID) error {
	if owner == token.ZeroAddress {
		return ErrZeroAddress
	}
	if l.Exists(id) {
		return ErrTokenExists
	}

	journal.From(ctx).Record(func() {
		delete(l.owners, id)
		l.balances[owner]--
	})
	l.owners[id] = owner
	l.balances[owner]++
	return nil
}

// Burn removes the token and clears its approval.
func (l *Ledger) Burn(ctx context.Context, id token.ID) error {
	owner, ok := l.owners[id]
	if !ok {
		return ErrUnknownToken
	}
	prevApproved, hadApproval := l.approved[id]

	journal.From(ctx).Record(func() {
		l.owners[id] = owner
		l.balances[owner]++
		if hadApproval {
			l.approved[id] = prevApproved
		}
	})
	delete(l.owners, id)
	delete(l.approved, id)
	l.balances[owner]--
	return nil
}

// Transfer moves the token from from to to and clears its approval. The
// caller is responsible for authorization; the ledger only verifies that
// from is the current owner.
func (l *Ledger) Transfer(ctx context.Context, from, to token.Address, id token.ID) error {
	owner, ok := l.owners[id]
	if !ok {
		return ErrUnknownToken
	}
	if owner != from {
		return ErrWrongOwner
	}
	if to == token.ZeroAddress {
		return ErrZeroAddress
	}
	prevApproved, hadApproval := l.approved[id]

	journal.From(ctx).Record(func() {
		l.owners[id] = from
		l.balances[from]++
		l.balances[to]--
		if hadApproval {
			l.approved[id] = prevApproved
		} else {
			delete(l.approved, id)
		}
	})
	l.owners[id] = to
	delete(l.approved, id)
	l.balances[from]--
	l.balances[to]++
	return nil
}

// Approve sets the single approved address for the token. The zero address
// clears the approval.
func (l *Ledger) Approve(ctx context.Context, approved token.Address, id token.ID) error {
	if !l.Exists(id) {
		return ErrUnknownToken
	}
	prev, had := l.approved[id]

	journal.From(ctx).Record(func() {
		if had {
			l.approved[id] = prev
		} else {
			delete(l.approved, id)
		}
	})
	if approved == token.ZeroAddress {
		delete(l.approved, id)
	} else {
		l.approved[id] = approved
	}
	return nil
}

// SetApprovalForAll grants or revokes operator rights over all of owner's
// tokens.
func (l *Ledger) SetApprovalForAll(ctx context.Context, owner, operator token.Address, on bool) error {
	if owner == token.ZeroAddress || operator == token.ZeroAddress {
		return ErrZeroAddress
	}
	prev := l.operators[owner][operator]

	journal.From(ctx).Record(func() {
		l.setOperator(owner, operator, prev)
	})
	l.setOperator(owner, operator, on)
	return nil
}

func (l *Ledger) setOperator(owner, operator token.Address, on bool) {
	if on {
		ops := l.operators[owner]
		if ops == nil {
			ops = make(map[token.Address]bool)
			l.operators[owner] = ops
		}
		ops[operator] = true
		return
	}
	delete(l.operators[owner], operator)
}
