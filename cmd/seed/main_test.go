package main

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"flashdeck/pkg/store"
)

func TestSeederRespectsReferences(t *testing.T) {
	mem := store.NewMemoryStore()
	s := &seeder{store: mem, rng: rand.New(rand.NewPCG(1, 2)), concurrency: 4}
	if err := s.run(context.Background(), counts{users: 5, decks: 3, cards: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestSeederNeedsParents(t *testing.T) {
	s := &seeder{store: store.NewMemoryStore(), rng: rand.New(rand.NewPCG(1, 2))}
	if err := s.run(context.Background(), counts{users: 0, decks: 1}); err == nil {
		t.Fatalf("expected error without users")
	}
	if err := s.run(context.Background(), counts{users: 1, cards: 1}); err == nil {
		t.Fatalf("expected error without decks")
	}
}

func TestSentenceLength(t *testing.T) {
	s := &seeder{rng: rand.New(rand.NewPCG(3, 4))}
	for i := 0; i < 50; i++ {
		got := s.sentence(40, 250)
		if len(got) < 40 || len(got) > 250 {
			t.Fatalf("sentence length %d out of range: %q", len(got), got)
		}
	}
}

func TestRunSeedReportsFailures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	cases := map[string][]string{
		"unknown flag":   {"-nope"},
		"negative count": {"-config", missing, "-users", "-1"},
		"cards no decks": {"-config", missing, "-decks", "0"},
		"missing config": {"-config", missing},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if err := runSeed(context.Background(), args); err == nil {
				t.Fatalf("runSeed(%v) returned nil", args)
			}
		})
	}
}
