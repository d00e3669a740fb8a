package ledger

import "errors"

var (
	// ErrUnknownToken is returned for operations on a token id that was
	// never minted or has been burned.
	ErrUnknownToken = errors.New("ledger: unknown token")

	// ErrTokenExists is returned when minting an id that is already owned.
	ErrTokenExists = errors.New("ledger: token already minted")

	// ErrZeroAddress is returned when an operation names the zero address
	// where a real account is required.
	ErrZeroAddress = errors.New("ledger: zero address")

	// ErrWrongOwner is returned when a transfer names a from address that
	// does not own the token.
	ErrWrongOwner = errors.New("ledger: from address is not the owner")
)
