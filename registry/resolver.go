package registry

import (
	"fmt"

	"github.com/ctoken-xyz/go-ctoken/token"
)

// Resolver maps registry identities to live Contract instances. It is how
// cross-registry references are dispatched within one execution
// environment.
type Resolver interface {
	Contract(id token.RegistryID) (Contract, error)
}

// StaticResolver is a fixed map of known registries.
type StaticResolver map[token.RegistryID]Contract

// NewStaticResolver builds a resolver over the given contracts.
func NewStaticResolver(contracts ...Contract) StaticResolver {
	r := make(StaticResolver, len(contracts))
	for _, c := range contracts {
		r[c.RegistryID()] = c
	}
	return r
}

// Add registers another contract.
func (r StaticResolver) Add(c Contract) {
	r[c.RegistryID()] = c
}

// Contract implements Resolver.
func (r StaticResolver) Contract(id token.RegistryID) (Contract, error) {
	c, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegistry, id)
	}
	return c, nil
}
