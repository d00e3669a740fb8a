package registry_test

import (
	"context"
	"testing"

	"github.com/ctoken-xyz/go-ctoken/registry"
	"github.com/ctoken-xyz/go-ctoken/token"
)

var (
	alice = token.AddressCaller("alice")
	bob   = token.AddressCaller("bob")
)

// newUniverse builds two registries that can resolve each other.
func newUniverse(t *testing.T) (*registry.Registry, *registry.Registry) {
	t.Helper()
	res := registry.StaticResolver{}
	a := registry.New("alpha", res)
	b := registry.New("beta", res)
	res.Add(a)
	res.Add(b)
	return a, b
}

func mint(t *testing.T, r *registry.Registry, owner token.Address, id uint64) token.ID {
	t.Helper()
	tokenID := token.NewID(id)
	if err := r.Mint(context.Background(), owner, tokenID); err != nil {
		t.Fatalf("mint %d on %s failed: %v", id, r.Name(), err)
	}
	return tokenID
}

func ref(r *registry.Registry, id token.ID) token.Ref {
	return token.Ref{Registry: r.RegistryID(), ID: id}
}

func owner(t *testing.T, r *registry.Registry, id token.ID) token.Address {
	t.Helper()
	addr, err := r.OwnerOf(context.Background(), id)
	if err != nil {
		t.Fatalf("ownerOf %s on %s failed: %v", id, r.Name(), err)
	}
	return addr
}
