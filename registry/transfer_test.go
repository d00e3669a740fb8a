package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ctoken-xyz/go-ctoken/registry"
	"github.com/ctoken-xyz/go-ctoken/token"
)

func TestTransferFrom(t *testing.T) {
	a, _ := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)

	if err := a.TransferFrom(ctx, alice, "alice", "bob", x); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if owner(t, a, x) != "bob" {
		t.Errorf("owner = %s, want bob", owner(t, a, x))
	}

	if err := a.TransferFrom(ctx, alice, "bob", "carol", x); !errors.Is(err, registry.ErrUnauthorized) {
		t.Errorf("stale owner transfer error = %v, want ErrUnauthorized", err)
	}
}

func TestTransferGate(t *testing.T) {
	a, _ := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)
	a.SetTransferable(ctx, alice, x, false)

	err := a.TransferFrom(ctx, alice, "alice", "bob", x)
	if !errors.Is(err, registry.ErrNotTransferableToAddress) {
		t.Fatalf("error = %v, want ErrNotTransferableToAddress", err)
	}

	// Whitelisting bob admits exactly bob, no other destination.
	a.SetTransferWhitelist(ctx, alice, x, "bob", true)
	if err := a.TransferFrom(ctx, alice, "alice", "carol", x); !errors.Is(err, registry.ErrNotTransferableToAddress) {
		t.Errorf("non-whitelisted destination error = %v, want ErrNotTransferableToAddress", err)
	}
	if err := a.TransferFrom(ctx, alice, "alice", "bob", x); err != nil {
		t.Fatalf("whitelisted transfer failed: %v", err)
	}
	if owner(t, a, x) != "bob" {
		t.Error("whitelisted transfer did not move the token")
	}
}

// Dependency gating on transfer: X depends on Y; Y nontransferable blocks
// X, and freeing Y unblocks X.
func TestTransferDependencyGate(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)
	y := mint(t, b, "alice", 2)
	a.SetDependence(ctx, alice, x, ref(b, y))
	b.SetTransferable(ctx, alice, y, false)

	err := a.TransferFrom(ctx, alice, "alice", "bob", x)
	if !errors.Is(err, registry.ErrNotTransferableToAddress) {
		t.Fatalf("error = %v, want ErrNotTransferableToAddress", err)
	}
	if owner(t, a, x) != "alice" {
		t.Error("failed transfer moved the token")
	}

	b.SetTransferable(ctx, alice, y, true)
	if err := a.TransferFrom(ctx, alice, "alice", "bob", x); err != nil {
		t.Fatalf("transfer after freeing dependency failed: %v", err)
	}
	if owner(t, a, x) != "bob" {
		t.Error("transfer did not move the token")
	}
}

// Lock cascade: locked tokens travel with their locker in one atomic
// operation, and unrelated tokens stay put.
func TestTransferCascade(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	ta := mint(t, a, "olga", 1)
	tb := mint(t, b, "olga", 2)
	tc := mint(t, a, "olga", 3) // unlocked bystander
	a.Lock(ctx, token.AddressCaller("olga"), ta, ref(b, tb))

	if err := b.TransferFrom(ctx, token.AddressCaller("olga"), "olga", "pete", tb); err != nil {
		t.Fatalf("cascading transfer failed: %v", err)
	}

	if owner(t, b, tb) != "pete" {
		t.Error("locker did not move")
	}
	if owner(t, a, ta) != "pete" {
		t.Error("locked token did not travel with its locker")
	}
	if owner(t, a, tc) != "olga" {
		t.Error("bystander token moved")
	}

	// The lock survives the transfer.
	if got := a.IsLocked(ta); got == nil || *got != ref(b, tb) {
		t.Error("lock did not survive the cascade")
	}
}

// A locked token cannot be moved by its owner; only the locking registry
// may move it, and it does so as part of moving the locker.
func TestLockedTransferAuthorization(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	ta := mint(t, a, "alice", 1)
	tb := mint(t, b, "alice", 2)
	a.Lock(ctx, alice, ta, ref(b, tb))

	err := a.TransferFrom(ctx, alice, "alice", "bob", ta)
	if !errors.Is(err, registry.ErrLockedCallerMismatch) {
		t.Errorf("owner transfer of locked token error = %v, want ErrLockedCallerMismatch", err)
	}
}

// A failing leg anywhere in the cascade unwinds the entire operation: no
// registry is left half-transferred.
func TestTransferCascadeAtomicity(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	ta := mint(t, a, "alice", 1)
	tb := mint(t, b, "alice", 2)
	a.Lock(ctx, alice, ta, ref(b, tb))
	a.SetTransferable(ctx, alice, ta, false) // the locked leg will fail its gate

	before := []string{a.Commitment(), b.Commitment()}

	err := b.TransferFrom(ctx, alice, "alice", "bob", tb)
	if !errors.Is(err, registry.ErrNotTransferableToAddress) {
		t.Fatalf("error = %v, want ErrNotTransferableToAddress from the locked leg", err)
	}

	after := []string{a.Commitment(), b.Commitment()}
	if before[0] != after[0] || before[1] != after[1] {
		t.Error("failed cascade left state changes behind")
	}
}

// Chained cascade: A locked to B, B locked to C; moving C moves all three.
func TestTransferCascadeChain(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	t1 := mint(t, a, "alice", 1)
	t2 := mint(t, b, "alice", 2)
	t3 := mint(t, a, "alice", 3)
	a.Lock(ctx, alice, t1, ref(b, t2))
	b.Lock(ctx, alice, t2, ref(a, t3))

	if err := a.TransferFrom(ctx, alice, "alice", "bob", t3); err != nil {
		t.Fatalf("chained cascade failed: %v", err)
	}
	for _, tc := range []struct {
		r  *registry.Registry
		id token.ID
	}{{a, t1}, {b, t2}, {a, t3}} {
		if owner(t, tc.r, tc.id) != "bob" {
			t.Errorf("token %s did not move with the chain", tc.id)
		}
	}
}

func TestSafeTransferFrom(t *testing.T) {
	a, _ := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)

	if err := a.SafeTransferFrom(ctx, alice, "alice", "bob", x, []byte{0x01}); err != nil {
		t.Fatalf("safe transfer failed: %v", err)
	}
	if owner(t, a, x) != "bob" {
		t.Error("safe transfer did not move the token")
	}
}

func TestApprovedCanTransfer(t *testing.T) {
	a, _ := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)

	if err := a.Approve(ctx, alice, "bob", x); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := a.TransferFrom(ctx, bob, "alice", "carol", x); err != nil {
		t.Fatalf("approved transfer failed: %v", err)
	}
	if owner(t, a, x) != "carol" {
		t.Error("approved transfer did not move the token")
	}
}
