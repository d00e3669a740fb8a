package registry

import (
	"context"

	"github.com/ctoken-xyz/go-ctoken/token"
)

// Contract is the narrow surface one registry exposes to another. A token's
// dependency or lock partner may live behind any implementation of this
// interface, in a registry this instance does not trust: every call across
// it must be treated as a fully reentrant invocation that may itself call
// back into the originating registry before returning. Callers therefore
// revalidate their own preconditions on every entry and never leave a
// half-updated record observable across a Contract call.
type Contract interface {
	// RegistryID returns the instance identity.
	RegistryID() token.RegistryID

	// OwnerOf returns the current owner of the token.
	OwnerOf(ctx context.Context, id token.ID) (token.Address, error)

	// IsTokenTransferable reports whether the token and, recursively, all
	// its dependencies are transferable.
	IsTokenTransferable(ctx context.Context, id token.ID) (bool, error)

	// IsTokenBurnable reports whether the token and, recursively, all its
	// dependencies are burnable.
	IsTokenBurnable(ctx context.Context, id token.ID) (bool, error)

	// IsTokenTransferableToAddress is the address-aware transfer gate:
	// the token's own flag or whitelist, and every dependency's, must
	// admit the destination.
	IsTokenTransferableToAddress(ctx context.Context, id token.ID, to token.Address) (bool, error)

	// TransferFrom moves the token, cascading to tokens locked to it.
	TransferFrom(ctx context.Context, caller token.Caller, from, to token.Address, id token.ID) error

	// Burn destroys the token, cascading to tokens locked to it.
	Burn(ctx context.Context, caller token.Caller, id token.ID) error

	// AddLockedToken records the reverse edge of a lock initiated by the
	// registry named in ref. Part of the lock protocol, not end-user
	// facing.
	AddLockedToken(ctx context.Context, caller token.Caller, id token.ID, ref token.Ref) error

	// Unlock clears the token's lock. Only the registry currently
	// recorded as the locker may call it.
	Unlock(ctx context.Context, caller token.Caller, id token.ID) error

	// LockedTo returns the reference the token is locked to, or nil.
	LockedTo(ctx context.Context, id token.ID) (*token.Ref, error)

	// SupportsCapability reports whether the registry implements the
	// named role.
	SupportsCapability(c token.Capability) bool
}
