package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ctoken-xyz/go-ctoken/registry"
)

func TestBurn(t *testing.T) {
	a, _ := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)

	if err := a.Burn(ctx, alice, x); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if a.Exists(x) {
		t.Error("token exists after burn")
	}

	if err := a.Burn(ctx, alice, x); err == nil {
		t.Error("double burn succeeded")
	}
}

func TestBurnGate(t *testing.T) {
	t.Run("OwnFlag", func(t *testing.T) {
		a, _ := newUniverse(t)
		ctx := context.Background()
		x := mint(t, a, "alice", 1)
		a.SetBurnable(ctx, alice, x, false)

		if err := a.Burn(ctx, alice, x); !errors.Is(err, registry.ErrNotBurnable) {
			t.Errorf("error = %v, want ErrNotBurnable", err)
		}
		if !a.Exists(x) {
			t.Error("gated burn destroyed the token")
		}
	})

	t.Run("Dependency", func(t *testing.T) {
		a, b := newUniverse(t)
		ctx := context.Background()
		x := mint(t, a, "alice", 1)
		y := mint(t, b, "alice", 2)
		a.SetDependence(ctx, alice, x, ref(b, y))
		b.SetBurnable(ctx, alice, y, false)

		if err := a.Burn(ctx, alice, x); !errors.Is(err, registry.ErrNotBurnable) {
			t.Errorf("error = %v, want ErrNotBurnable", err)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		a, _ := newUniverse(t)
		x := mint(t, a, "alice", 1)
		if err := a.Burn(context.Background(), bob, x); !errors.Is(err, registry.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

// Burning a token burns every token locked to it: locking implies shared
// fate.
func TestBurnCascade(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	ta := mint(t, a, "alice", 1)
	tb := mint(t, b, "alice", 2)
	a.Lock(ctx, alice, ta, ref(b, tb))

	if err := b.Burn(ctx, alice, tb); err != nil {
		t.Fatalf("cascading burn failed: %v", err)
	}
	if b.Exists(tb) {
		t.Error("locker exists after burn")
	}
	if a.Exists(ta) {
		t.Error("locked token survived its locker's burn")
	}
}

// If any locked token is not burnable the entire burn fails and no state
// changes anywhere.
func TestBurnCascadeAtomicity(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	ta := mint(t, a, "alice", 1)
	tb := mint(t, b, "alice", 2)
	a.Lock(ctx, alice, ta, ref(b, tb))
	a.SetBurnable(ctx, alice, ta, false)

	before := []string{a.Commitment(), b.Commitment()}

	err := b.Burn(ctx, alice, tb)
	if !errors.Is(err, registry.ErrNotBurnable) {
		t.Fatalf("error = %v, want ErrNotBurnable from the locked leg", err)
	}

	after := []string{a.Commitment(), b.Commitment()}
	if before[0] != after[0] || before[1] != after[1] {
		t.Error("failed burn cascade left state changes behind")
	}
	if !a.Exists(ta) || !b.Exists(tb) {
		t.Error("failed burn destroyed a token")
	}
}

// A locked token cannot be burned by its owner, only through its locker.
func TestLockedBurnAuthorization(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	ta := mint(t, a, "alice", 1)
	tb := mint(t, b, "alice", 2)
	a.Lock(ctx, alice, ta, ref(b, tb))

	err := a.Burn(ctx, alice, ta)
	if !errors.Is(err, registry.ErrLockedCallerMismatch) {
		t.Errorf("owner burn of locked token error = %v, want ErrLockedCallerMismatch", err)
	}
}

// Burn tears down the whole record: a reminted id starts from the default
// constraint state.
func TestBurnClearsRecord(t *testing.T) {
	a, b := newUniverse(t)
	ctx := context.Background()
	x := mint(t, a, "alice", 1)
	y := mint(t, b, "alice", 2)
	a.SetDependence(ctx, alice, x, ref(b, y))
	a.SetTransferable(ctx, alice, x, false)
	a.SetTransferWhitelist(ctx, alice, x, "bob", true)

	// The dependency pins the burn gate only through burnability; both
	// stay burnable here, so the burn passes.
	if err := a.Burn(ctx, alice, x); err != nil {
		t.Fatalf("burn failed: %v", err)
	}

	x2 := mint(t, a, "carol", 1)
	if !a.IsTransferable(x2) {
		t.Error("reminted token inherited the old nontransferable flag")
	}
	if a.IsDependent(x2, ref(b, y)) {
		t.Error("reminted token inherited old dependencies")
	}
	if a.IsAddressWhitelisted(x2, "bob") {
		t.Error("reminted token inherited the old whitelist")
	}
}
