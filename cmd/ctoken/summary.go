package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ctoken-xyz/go-ctoken/registry"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ctoken summary <state.json>

Display a per-registry summary of an exported snapshot file.

Examples:
  ctoken demo --snapshot state.json
  ctoken summary state.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("snapshot file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snaps []*registry.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	for _, snap := range snaps {
		fmt.Printf("Registry: %s (%s)\n", snap.Name, snap.Registry)
		fmt.Printf("Tokens: %d\n", len(snap.Tokens))
		fmt.Printf("Commitment: %s\n", snap.Commitment())

		owners := make(map[string]int)
		var frozen, locked, dependent int
		for _, st := range snap.Tokens {
			owners[string(st.Owner)]++
			if st.Nontransferable || st.Nonburnable {
				frozen++
			}
			if st.LockedTo != nil {
				locked++
			}
			if len(st.Dependencies) > 0 {
				dependent++
			}
		}
		fmt.Println("Holders:")
		for owner, n := range owners {
			fmt.Printf("  %s: %d\n", owner, n)
		}
		if frozen > 0 {
			fmt.Printf("Flagged nontransferable/nonburnable: %d\n", frozen)
		}
		if locked > 0 {
			fmt.Printf("Locked: %d\n", locked)
		}
		if dependent > 0 {
			fmt.Printf("With dependencies: %d\n", dependent)
		}
		fmt.Println()
	}
	return nil
}
