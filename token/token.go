// Package token defines the value types shared by the ownership-constraint
// engine: 256-bit token identifiers, account addresses, registry identities,
// external token references, and caller identity.
package token

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// ID is a 256-bit token identifier. It is a value type and comparable, so it
// can be used directly as a map key.
type ID uint256.Int

// NewID creates an ID from a uint64.
func NewID(v uint64) ID {
	return ID(*uint256.NewInt(v))
}

// ParseID parses an ID from a decimal string or a 0x-prefixed hex string.
func ParseID(s string) (ID, error) {
	var u *uint256.Int
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, err = uint256.FromHex(s)
	} else {
		u, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return ID{}, fmt.Errorf("token: parse id %q: %w", s, err)
	}
	return ID(*u), nil
}

// Hex returns the 0x-prefixed hexadecimal form.
func (id ID) Hex() string {
	u := uint256.Int(id)
	return u.Hex()
}

// String returns the decimal form.
func (id ID) String() string {
	u := uint256.Int(id)
	return u.Dec()
}

// Cmp compares two IDs numerically, returning -1, 0 or 1.
func (id ID) Cmp(other ID) int {
	a := uint256.Int(id)
	b := uint256.Int(other)
	return a.Cmp(&b)
}

// MarshalText implements encoding.TextMarshaler using the hex form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Address identifies an account that can own tokens.
type Address string

// ZeroAddress is the absent address.
const ZeroAddress Address = ""

// RegistryID uniquely identifies a registry instance.
type RegistryID uuid.UUID

// NewRegistryID generates a fresh registry identity.
func NewRegistryID() RegistryID {
	return RegistryID(uuid.New())
}

// ParseRegistryID parses the canonical UUID string form.
func ParseRegistryID(s string) (RegistryID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RegistryID{}, fmt.Errorf("token: parse registry id %q: %w", s, err)
	}
	return RegistryID(u), nil
}

// IsZero reports whether the identity is unset.
func (r RegistryID) IsZero() bool {
	return r == RegistryID{}
}

func (r RegistryID) String() string {
	return uuid.UUID(r).String()
}

// MarshalText implements encoding.TextMarshaler.
func (r RegistryID) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RegistryID) UnmarshalText(b []byte) error {
	parsed, err := ParseRegistryID(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Ref identifies a token that may live in a different registry instance.
// Equality is by (registry, id), so Ref is usable as a map key.
type Ref struct {
	Registry RegistryID `json:"registry"`
	ID       ID         `json:"id"`
}

func (r Ref) String() string {
	return r.Registry.String() + "/" + r.ID.String()
}

// Cmp orders refs by registry identity, then token id. Used only for
// deterministic snapshot output.
func (r Ref) Cmp(other Ref) int {
	a := uuid.UUID(r.Registry)
	b := uuid.UUID(other.Registry)
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return r.ID.Cmp(other.ID)
}

// Caller identifies who invoked an operation. A zero Registry means an
// end-user account; a nonzero Registry means another registry instance
// speaking the cross-registry protocol on its own authority.
type Caller struct {
	Addr     Address
	Registry RegistryID
}

// AddressCaller wraps an end-user account.
func AddressCaller(a Address) Caller {
	return Caller{Addr: a}
}

// RegistryCaller wraps a registry instance identity.
func RegistryCaller(id RegistryID) Caller {
	return Caller{Registry: id}
}

// IsRegistry reports whether the caller is a registry instance.
func (c Caller) IsRegistry() bool {
	return !c.Registry.IsZero()
}

func (c Caller) String() string {
	if c.IsRegistry() {
		return "registry:" + c.Registry.String()
	}
	return "address:" + string(c.Addr)
}

// Capability names a role a registry can advertise through capability
// discovery.
type Capability string

const (
	// CapDependence marks a registry whose tokens can bear dependencies on
	// other tokens.
	CapDependence Capability = "ctoken:dependence:1"

	// CapLockable marks a registry whose tokens can participate in the
	// lock protocol.
	CapLockable Capability = "ctoken:lockable:1"
)
