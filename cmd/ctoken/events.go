package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ctoken-xyz/go-ctoken/eventlog"
	"github.com/ctoken-xyz/go-ctoken/token"
)

func events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	registryFilter := fs.String("registry", "", "Only show events for this registry id")
	typeFilter := fs.String("type", "", "Filter by event type")
	fromSeq := fs.Uint64("from", 0, "Start at this sequence number")
	jsonl := fs.Bool("jsonl", false, "Emit events as JSON lines instead of a table")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ctoken events <events.db> [options]

Display the event timeline recorded in an event database.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Show all events
  ctoken events events.db

  # Only transfers, from sequence 10
  ctoken events events.db --type transferred --from 10

  # Export one registry as JSON lines
  ctoken events events.db --registry 6a3f... --jsonl > events.jsonl
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("event database required")
	}

	ctx := context.Background()
	store, err := eventlog.NewSQLiteStore(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	var registries []token.RegistryID
	if *registryFilter != "" {
		id, err := token.ParseRegistryID(*registryFilter)
		if err != nil {
			return fmt.Errorf("parse registry id: %w", err)
		}
		registries = []token.RegistryID{id}
	} else {
		registries, err = store.Registries(ctx)
		if err != nil {
			return err
		}
	}
	if len(registries) == 0 {
		fmt.Println("No events recorded")
		return nil
	}

	for _, reg := range registries {
		evs, err := store.Read(ctx, reg, *fromSeq)
		if err != nil {
			return err
		}
		if *typeFilter != "" {
			filtered := evs[:0]
			for _, ev := range evs {
				if ev.Type == eventlog.Type(*typeFilter) {
					filtered = append(filtered, ev)
				}
			}
			evs = filtered
		}
		if len(evs) == 0 {
			continue
		}

		if *jsonl {
			if err := eventlog.WriteJSONL(os.Stdout, evs); err != nil {
				return err
			}
			continue
		}

		fmt.Printf("Registry %s (%d events)\n", reg, len(evs))
		for _, ev := range evs {
			line := fmt.Sprintf("  [%4d] %-18s token=%s", ev.Seq, ev.Type, ev.TokenID)
			if ev.From != "" || ev.To != "" {
				line += fmt.Sprintf(" %s -> %s", orDash(ev.From), orDash(ev.To))
			}
			if ev.Ref != nil {
				line += fmt.Sprintf(" ref=%s", ev.Ref)
			}
			if ev.Note != "" {
				line += fmt.Sprintf(" (%s)", ev.Note)
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
	return nil
}

func orDash(addr token.Address) string {
	if addr == "" {
		return "-"
	}
	return string(addr)
}
