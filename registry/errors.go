package registry

import (
	"errors"
	"fmt"

	"github.com/ctoken-xyz/go-ctoken/ledger"
	"github.com/ctoken-xyz/go-ctoken/token"
)

// Every error here fails the whole enclosing atomic operation: a failing
// precondition anywhere in a cascade unwinds the entire top-level call.
var (
	// ErrUnauthorized is returned when the caller is neither owner nor
	// approved where that is required, or is not the registry a protocol
	// step is reserved for.
	ErrUnauthorized = errors.New("registry: caller not authorized")

	// ErrAlreadyDependent is returned when adding a dependency that is
	// already present.
	ErrAlreadyDependent = errors.New("registry: token already depends on reference")

	// ErrNotDependent is returned when removing a dependency that is
	// absent.
	ErrNotDependent = errors.New("registry: token does not depend on reference")

	// ErrAlreadyLocked is returned when locking a token that already has a
	// lock, or when a reverse lock edge is already recorded.
	ErrAlreadyLocked = errors.New("registry: token already locked")

	// ErrNotLocked is returned when a lock-edge precondition fails: the
	// token is not locked, or the named reverse edge does not exist.
	ErrNotLocked = errors.New("registry: token not locked")

	// ErrDeadlockDetected is returned when a lock request would create an
	// immediate two-token cycle. Longer cycles are not detected.
	ErrDeadlockDetected = errors.New("registry: lock would deadlock")

	// ErrDifferentOwners is returned when a lock names a reference owned
	// by a different address than the token being locked.
	ErrDifferentOwners = errors.New("registry: token and reference have different owners")

	// ErrNotBurnable is returned when the burn gate fails, either on the
	// token's own flag or through a dependency.
	ErrNotBurnable = errors.New("registry: token not burnable")

	// ErrNotTransferableToAddress is returned when the transfer gate
	// fails for the requested destination, either on the token's own
	// flag/whitelist or through a dependency.
	ErrNotTransferableToAddress = errors.New("registry: token not transferable to address")

	// ErrLockedCallerMismatch is returned when transfer or burn is
	// attempted on a locked token by anyone other than its locking
	// registry.
	ErrLockedCallerMismatch = errors.New("registry: locked token may only be moved or burned by its locking registry")

	// ErrCallerNotLockingContract is returned when unlock is attempted by
	// anyone other than the registry currently recorded as the locker.
	ErrCallerNotLockingContract = errors.New("registry: only the locking registry may unlock")

	// ErrUnknownRegistry is returned when a reference names a registry
	// identity the resolver cannot reach.
	ErrUnknownRegistry = errors.New("registry: unknown registry identity")
)

// errUnknown decorates the ledger's unknown-token error with the id.
func errUnknown(id token.ID) error {
	return fmt.Errorf("%w (%s)", ledger.ErrUnknownToken, id)
}
