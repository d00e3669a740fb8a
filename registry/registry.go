// Package registry implements a composable ownership-constraint engine on
// top of the base non-fungible ledger. A token's transferability and
// burnability can be made conditional on per-token flags, on dependencies
// on tokens possibly held in other registries, and on a locking relation
// that binds one token's lifecycle to another's, with transfers and burns
// cascading across registry boundaries as a single atomic operation.
package registry

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ctoken-xyz/go-ctoken/eventlog"
	"github.com/ctoken-xyz/go-ctoken/journal"
	"github.com/ctoken-xyz/go-ctoken/ledger"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// Registry is one registry instance: a base ledger plus the per-token
// constraint records. The engine holds no internal locks; the surrounding
// execution environment serializes top-level operations, and a cascade may
// legitimately reenter this registry mid-operation.
type Registry struct {
	id       token.RegistryID
	name     string
	ledger   *ledger.Ledger
	resolver Resolver
	records  map[token.ID]*record
	events   eventlog.Store
	log      zerolog.Logger
	seq      uint64
}

// New creates a registry with a fresh identity and an empty ledger. The
// resolver dispatches cross-registry references; it may be nil for a
// registry whose tokens never reference another instance.
func New(name string, resolver Resolver) *Registry {
	return &Registry{
		id:       token.NewRegistryID(),
		name:     name,
		ledger:   ledger.New(),
		resolver: resolver,
		records:  make(map[token.ID]*record),
		log:      zerolog.Nop(),
	}
}

// RegistryID returns the instance identity.
func (r *Registry) RegistryID() token.RegistryID {
	return r.id
}

// Name returns the human-readable name.
func (r *Registry) Name() string {
	return r.name
}

// SetLogger installs an operation logger. The default discards everything.
func (r *Registry) SetLogger(l zerolog.Logger) {
	r.log = l
}

// SetEventStore installs a sink for committed operation events.
func (r *Registry) SetEventStore(s eventlog.Store) {
	r.events = s
}

// SupportsCapability reports the roles this registry implements.
func (r *Registry) SupportsCapability(c token.Capability) bool {
	return c == token.CapDependence || c == token.CapLockable
}

// ref builds this registry's external reference for a local token.
func (r *Registry) ref(id token.ID) token.Ref {
	return token.Ref{Registry: r.id, ID: id}
}

// contract resolves a registry identity, short-circuiting self-references.
func (r *Registry) contract(id token.RegistryID) (Contract, error) {
	if id == r.id {
		return r, nil
	}
	if r.resolver == nil {
		return nil, fmt.Errorf("%w: %s (no resolver)", ErrUnknownRegistry, id)
	}
	return r.resolver.Contract(id)
}

// emit queues an event for the enclosing transaction; it is sequenced,
// logged and persisted only if the top-level operation commits.
func (r *Registry) emit(ctx context.Context, ev eventlog.Event) {
	journal.From(ctx).OnCommit(func() {
		ev.Seq = r.seq
		r.seq++

		r.log.Debug().
			Str("registry", r.name).
			Str("type", string(ev.Type)).
			Str("token", ev.TokenID.String()).
			Uint64("seq", ev.Seq).
			Msg("operation committed")

		if r.events != nil {
			if err := r.events.Append(ctx, ev); err != nil {
				r.log.Error().Err(err).Str("registry", r.name).Msg("event append failed")
			}
		}
	})
}

// Exists reports whether the token is currently minted.
func (r *Registry) Exists(id token.ID) bool {
	return r.ledger.Exists(id)
}

// OwnerOf returns the current owner of the token.
func (r *Registry) OwnerOf(_ context.Context, id token.ID) (token.Address, error) {
	return r.ledger.OwnerOf(id)
}

// BalanceOf returns the number of tokens held by addr.
func (r *Registry) BalanceOf(addr token.Address) int {
	return r.ledger.BalanceOf(addr)
}

// GetApproved returns the single approved address for the token, if any.
func (r *Registry) GetApproved(id token.ID) token.Address {
	return r.ledger.GetApproved(id)
}

// IsApprovedForAll reports whether operator may act on all of owner's
// tokens.
func (r *Registry) IsApprovedForAll(owner, operator token.Address) bool {
	return r.ledger.IsApprovedForAll(owner, operator)
}

// isApprovedOrOwner reports whether the caller is an account that owns or
// is approved for the token. Registry callers never pass this check; the
// protocol paths that admit them test for those explicitly.
func (r *Registry) isApprovedOrOwner(c token.Caller, id token.ID) bool {
	if c.IsRegistry() {
		return false
	}
	return r.ledger.IsAuthorized(c.Addr, id)
}

// Mint creates a token owned by to. The transfer gate runs as for any
// ownership change; a fresh token has no record, so it passes trivially.
func (r *Registry) Mint(ctx context.Context, to token.Address, id token.ID) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.mint(ctx, to, id)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) mint(ctx context.Context, to token.Address, id token.ID) error {
	if err := r.checkTransferGate(ctx, id, to); err != nil {
		return err
	}
	if err := r.ledger.Mint(ctx, to, id); err != nil {
		return err
	}
	ev := eventlog.New(r.id, eventlog.TypeMinted, id)
	ev.To = to
	r.emit(ctx, ev)
	return nil
}

// Approve sets the single approved address for the token. Caller must be
// the owner or one of the owner's operators.
func (r *Registry) Approve(ctx context.Context, caller token.Caller, approved token.Address, id token.ID) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.approve(ctx, caller, approved, id)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) approve(ctx context.Context, caller token.Caller, approved token.Address, id token.ID) error {
	owner, err := r.ledger.OwnerOf(id)
	if err != nil {
		return err
	}
	if caller.IsRegistry() || (caller.Addr != owner && !r.ledger.IsApprovedForAll(owner, caller.Addr)) {
		return ErrUnauthorized
	}
	if err := r.ledger.Approve(ctx, approved, id); err != nil {
		return err
	}
	ev := eventlog.New(r.id, eventlog.TypeApproved, id)
	ev.From = owner
	ev.To = approved
	r.emit(ctx, ev)
	return nil
}

// SetApprovalForAll grants or revokes an operator over all of the caller's
// tokens.
func (r *Registry) SetApprovalForAll(ctx context.Context, caller token.Caller, operator token.Address, on bool) error {
	ctx, tx, owned := journal.Begin(ctx)
	err := r.setApprovalForAll(ctx, caller, operator, on)
	return journal.Finish(tx, owned, err)
}

func (r *Registry) setApprovalForAll(ctx context.Context, caller token.Caller, operator token.Address, on bool) error {
	if caller.IsRegistry() {
		return ErrUnauthorized
	}
	if err := r.ledger.SetApprovalForAll(ctx, caller.Addr, operator, on); err != nil {
		return err
	}
	ev := eventlog.New(r.id, eventlog.TypeOperatorSet, token.ID{})
	ev.From = caller.Addr
	ev.To = operator
	ev.Note = fmt.Sprintf("approved=%t", on)
	r.emit(ctx, ev)
	return nil
}

var _ Contract = (*Registry)(nil)
