package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"flashdeck/internal/config"
	"flashdeck/internal/util"
	"flashdeck/pkg/auth"
	"flashdeck/pkg/domain"
	"flashdeck/pkg/store"
)

// seedPassword is shared by every generated account.
const seedPassword = "Flashdeck!2024"

type counts struct {
	users, decks, cards int
}

func (n counts) check() error {
	if n.users < 0 || n.decks < 0 || n.cards < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if n.users == 0 && (n.decks > 0 || n.cards > 0) {
		return fmt.Errorf("decks and cards need at least one user")
	}
	if n.decks == 0 && n.cards > 0 {
		return fmt.Errorf("cards need at least one deck")
	}
	return nil
}

func main() {
	if err := runSeed(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

// runSeed parses args, connects to the configured database and seeds it.
func runSeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	configPath := fs.String("config", config.PathFromEnv(), "path to config")
	users := fs.Int("users", 150, "number of users to create")
	decks := fs.Int("decks", 50, "number of decks to create")
	cards := fs.Int("cards", 150, "number of cards to create")
	concurrency := fs.Int("concurrency", 8, "parallel inserts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n := counts{users: *users, decks: *decks, cards: *cards}
	if err := n.check(); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	util.InitLogger(cfg.LogLevel)

	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	s := &seeder{
		store:       db,
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		concurrency: *concurrency,
	}
	start := time.Now()
	if err := s.run(ctx, n); err != nil {
		return err
	}
	slog.Info("seed complete",
		"users", n.users, "decks", n.decks, "cards", n.cards,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

type seeder struct {
	store       store.Store
	rng         *rand.Rand
	concurrency int
}

// run creates users, then decks owned by random users, then cards placed in
// random decks with random owners.
func (s *seeder) run(ctx context.Context, n counts) error {
	if err := n.check(); err != nil {
		return err
	}
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]domain.User, n.users)
	for i := range users {
		name := s.personName()
		now := time.Now().UTC()
		users[i] = domain.User{
			ID:           util.NewID(),
			Name:         name,
			Email:        fmt.Sprintf("%s.%d@example.com", strings.ToLower(strings.ReplaceAll(name, " ", ".")), i+1),
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	if err := s.parallel(ctx, len(users), func(ctx context.Context, i int) error {
		return s.store.CreateUser(ctx, users[i])
	}); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	decks := make([]domain.Deck, n.decks)
	for i := range decks {
		decks[i] = domain.Deck{
			ID:          util.NewID(),
			Name:        s.personName(),
			Description: s.sentence(40, 250),
			OwnerID:     users[s.rng.IntN(len(users))].ID,
		}
	}
	if err := s.parallel(ctx, len(decks), func(ctx context.Context, i int) error {
		_, err := s.store.CreateDeck(ctx, decks[i])
		return err
	}); err != nil {
		return fmt.Errorf("seed decks: %w", err)
	}

	cards := make([]domain.Card, n.cards)
	for i := range cards {
		cards[i] = domain.Card{
			ID:      util.NewID(),
			Name:    s.personName(),
			DeckID:  decks[s.rng.IntN(len(decks))].ID,
			OwnerID: users[s.rng.IntN(len(users))].ID,
		}
	}
	if err := s.parallel(ctx, len(cards), func(ctx context.Context, i int) error {
		_, err := s.store.CreateCard(ctx, cards[i])
		return err
	}); err != nil {
		return fmt.Errorf("seed cards: %w", err)
	}
	return nil
}

func (s *seeder) parallel(ctx context.Context, n int, fn func(context.Context, int) error) error {
	limit := s.concurrency
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

var (
	firstNames = []string{"Ada", "Alan", "Barbara", "Claude", "Dennis", "Edsger", "Frances", "Grace", "John", "Ken", "Leslie", "Margaret", "Niklaus", "Radia", "Rob", "Sophie", "Tony", "Whitfield"}
	lastNames  = []string{"Allen", "Backus", "Dijkstra", "Hamilton", "Hoare", "Hopper", "Kernighan", "Knuth", "Lamport", "Liskov", "Lovelace", "Perlman", "Pike", "Ritchie", "Thompson", "Turing", "Wilson", "Wirth"}
	words      = strings.Fields("the quick study of any subject rests on spaced repetition and careful recall " +
		"each card asks one question and a deck groups related questions together so that " +
		"review sessions stay short focused and easy to resume after a break")
)

func (s *seeder) personName() string {
	return firstNames[s.rng.IntN(len(firstNames))] + " " + lastNames[s.rng.IntN(len(lastNames))]
}

// sentence returns text between minLen and maxLen characters.
func (s *seeder) sentence(minLen, maxLen int) string {
	target := minLen + s.rng.IntN(maxLen-minLen+1)
	var b strings.Builder
	for b.Len() < target {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(words[s.rng.IntN(len(words))])
	}
	out := b.String()
	if len(out) > maxLen {
		out = strings.TrimSpace(out[:maxLen])
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
