package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ctoken-xyz/go-ctoken/eventlog"
	"github.com/ctoken-xyz/go-ctoken/registry"
	"github.com/ctoken-xyz/go-ctoken/token"
)

func demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	dbPath := fs.String("db", "", "Persist events to a SQLite database at this path")
	snapshotPath := fs.String("snapshot", "", "Write final registry snapshots to this JSON file")
	verbose := fs.Bool("verbose", false, "Log every registry event to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ctoken demo [options]

Run a scripted scenario across two registries: dependencies gating
transfers, an address whitelist, a lock, and a cascading transfer and
burn.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Run with events persisted
  ctoken demo --db events.db

  # Run with live logging and a state export
  ctoken demo --verbose --snapshot state.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	var store eventlog.Store
	if *dbPath != "" {
		s, err := eventlog.NewSQLiteStore(*dbPath)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		defer s.Close()
		store = s
	} else {
		store = eventlog.NewMemoryStore()
	}

	res := registry.StaticResolver{}
	gallery := registry.New("gallery", res)
	passes := registry.New("passes", res)
	res.Add(gallery)
	res.Add(passes)
	gallery.SetEventStore(store)
	passes.SetEventStore(store)

	if *verbose {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		gallery.SetLogger(log.With().Str("registry", "gallery").Logger())
		passes.SetLogger(log.With().Str("registry", "passes").Logger())
	}

	alice := token.AddressCaller("alice")
	bob := token.AddressCaller("bob")

	artwork := token.NewID(1)
	season := token.NewID(100)
	vip := token.NewID(101)
	artworkRef := token.Ref{Registry: gallery.RegistryID(), ID: artwork}

	fmt.Println("Minting: gallery #1 (artwork), passes #100 (season), passes #101 (vip), all to alice")
	if err := gallery.Mint(ctx, "alice", artwork); err != nil {
		return err
	}
	if err := passes.Mint(ctx, "alice", season); err != nil {
		return err
	}
	if err := passes.Mint(ctx, "alice", vip); err != nil {
		return err
	}

	fmt.Println("\nBinding the season pass to the artwork: the pass only moves while the artwork can")
	if err := passes.SetDependence(ctx, alice, season, artworkRef); err != nil {
		return err
	}

	if err := gallery.SetTransferable(ctx, alice, artwork, false); err != nil {
		return err
	}
	err := passes.TransferFrom(ctx, alice, "alice", "bob", season)
	fmt.Printf("Transfer of the season pass while the artwork is frozen: %v\n", err)
	if err == nil {
		return fmt.Errorf("gated transfer unexpectedly succeeded")
	}

	fmt.Println("\nWhitelisting 'vault' on the frozen artwork")
	if err := gallery.SetTransferWhitelist(ctx, alice, artwork, "vault", true); err != nil {
		return err
	}
	ok, err := gallery.IsTokenTransferableToAddress(ctx, artwork, "vault")
	if err != nil {
		return err
	}
	fmt.Printf("Artwork transferable to vault despite the freeze: %v\n", ok)

	if err := gallery.SetTransferable(ctx, alice, artwork, true); err != nil {
		return err
	}

	fmt.Println("\nLocking the vip pass to the artwork: they now travel together")
	if err := passes.Lock(ctx, alice, vip, artworkRef); err != nil {
		return err
	}

	fmt.Println("Transferring the artwork alice -> bob")
	if err := gallery.TransferFrom(ctx, alice, "alice", "bob", artwork); err != nil {
		return err
	}
	vipOwner, err := passes.OwnerOf(ctx, vip)
	if err != nil {
		return err
	}
	fmt.Printf("The vip pass followed: now owned by %s\n", vipOwner)

	fmt.Println("\nReleasing the season pass and burning the artwork")
	if err := passes.RemoveDependence(ctx, alice, season, artworkRef); err != nil {
		return err
	}
	if err := gallery.Burn(ctx, bob, artwork); err != nil {
		return err
	}
	fmt.Printf("Artwork exists: %v, vip pass exists: %v, season pass exists: %v\n",
		gallery.Exists(artwork), passes.Exists(vip), passes.Exists(season))

	fmt.Println("\nFinal commitments:")
	fmt.Printf("  gallery %s\n", gallery.Commitment())
	fmt.Printf("  passes  %s\n", passes.Commitment())

	if *snapshotPath != "" {
		snaps := []*registry.Snapshot{gallery.Snapshot(), passes.Snapshot()}
		data, err := json.MarshalIndent(snaps, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := os.WriteFile(*snapshotPath, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Printf("\nSnapshots written to %s\n", *snapshotPath)
	}
	if *dbPath != "" {
		fmt.Printf("Events written to %s (inspect with: ctoken events %s)\n", *dbPath, *dbPath)
	}
	return nil
}
