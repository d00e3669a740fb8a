// Package eventlog records committed registry operations. Every top-level
// gate operation that commits appends one event per affected token,
// including each leg of a cross-registry cascade, so the log is a complete
// audit trail of ownership changes, lock protocol steps and constraint
// edits.
package eventlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/ctoken-xyz/go-ctoken/token"
)

// Type enumerates the recorded operation kinds.
type Type string

const (
	TypeMinted            Type = "minted"
	TypeTransferred       Type = "transferred"
	TypeBurned            Type = "burned"
	TypeLocked            Type = "locked"
	TypeUnlocked          Type = "unlocked"
	TypeDependenceSet     Type = "dependence_set"
	TypeDependenceRemoved Type = "dependence_removed"
	TypeFlagSet           Type = "flag_set"
	TypeWhitelistSet      Type = "whitelist_set"
	TypeApproved          Type = "approved"
	TypeOperatorSet       Type = "operator_set"
)

// Event is one committed operation on one token.
type Event struct {
	// ID uniquely identifies the event.
	ID uuid.UUID `json:"id"`

	// Registry is the registry instance the operation ran on.
	Registry token.RegistryID `json:"registry"`

	// Seq is the registry-local sequence number, assigned at commit.
	Seq uint64 `json:"seq"`

	// Type is the operation kind.
	Type Type `json:"type"`

	// TokenID is the affected token.
	TokenID token.ID `json:"token_id"`

	// From and To carry addresses where the operation moves or grants
	// something; empty otherwise.
	From token.Address `json:"from,omitempty"`
	To   token.Address `json:"to,omitempty"`

	// Ref carries the external token reference for dependency and lock
	// operations.
	Ref *token.Ref `json:"ref,omitempty"`

	// Note carries operation detail, e.g. which flag was set.
	Note string `json:"note,omitempty"`

	// At is the commit wall-clock time.
	At time.Time `json:"at"`
}

// New creates an event with a fresh ID and the current time. Seq is filled
// in by the registry at commit.
func New(registry token.RegistryID, typ Type, tokenID token.ID) Event {
	return Event{
		ID:       uuid.New(),
		Registry: registry,
		Type:     typ,
		TokenID:  tokenID,
		At:       time.Now().UTC(),
	}
}
