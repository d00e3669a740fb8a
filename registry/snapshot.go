package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/ctoken-xyz/go-ctoken/token"
)

// TokenState is the exported constraint state of one token. Reference and
// address lists are sorted, so the same logical state always serializes the
// same way regardless of the mutation history that produced it.
type TokenState struct {
	ID              token.ID        `json:"id"`
	Owner           token.Address   `json:"owner"`
	Approved        token.Address   `json:"approved,omitempty"`
	Nontransferable bool            `json:"nontransferable,omitempty"`
	Nonburnable     bool            `json:"nonburnable,omitempty"`
	Dependencies    []token.Ref     `json:"dependencies,omitempty"`
	Whitelist       []token.Address `json:"whitelist,omitempty"`
	LockedTo        *token.Ref      `json:"locked_to,omitempty"`
	LockedTokens    []token.Ref     `json:"locked_tokens,omitempty"`
}

// Snapshot is a deterministic export of a registry's full state.
type Snapshot struct {
	Registry token.RegistryID `json:"registry"`
	Name     string           `json:"name"`
	Tokens   []TokenState     `json:"tokens"`
}

// Snapshot exports the registry's current state.
func (r *Registry) Snapshot() *Snapshot {
	snap := &Snapshot{
		Registry: r.id,
		Name:     r.name,
	}

	ids := r.ledger.TokenIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Cmp(ids[j]) < 0 })

	for _, id := range ids {
		owner, err := r.ledger.OwnerOf(id)
		if err != nil {
			continue
		}
		st := TokenState{
			ID:       id,
			Owner:    owner,
			Approved: r.ledger.GetApproved(id),
		}
		if rec := r.rec(id); rec != nil {
			st.Nontransferable = rec.nontransferable
			st.Nonburnable = rec.nonburnable
			st.Dependencies = sortedRefs(rec.dependencies())
			st.Whitelist = sortedAddrs(rec.whitelist)
			st.LockedTo = rec.locked()
			st.LockedTokens = sortedRefs(rec.lockedTokens())
		}
		snap.Tokens = append(snap.Tokens, st)
	}
	return snap
}

// Commitment computes a content hash over the snapshot. Any change to the
// registry's observable state changes the commitment.
func (s *Snapshot) Commitment() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return "cid:" + hex.EncodeToString(hash[:])
}

// Commitment is a convenience for Snapshot().Commitment().
func (r *Registry) Commitment() string {
	return r.Snapshot().Commitment()
}

func sortedRefs(refs []token.Ref) []token.Ref {
	if len(refs) == 0 {
		return nil
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Cmp(refs[j]) < 0 })
	return refs
}

func sortedAddrs(set map[token.Address]bool) []token.Address {
	if len(set) == 0 {
		return nil
	}
	out := make([]token.Address, 0, len(set))
	for addr := range set {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
