package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"flashdeck/internal/util"
	"flashdeck/pkg/domain"
	"flashdeck/pkg/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestApp(t *testing.T, strict bool) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	sessions, err := store.NewJWTSessionStore(testSecret, time.Hour, store.NewMemoryTokenRevoker(), store.JWTOptions{})
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	a, err := New(Config{Store: mem, Sessions: sessions, StrictCardDecks: strict})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func seedUser(t *testing.T, mem *store.MemoryStore, name string) domain.User {
	t.Helper()
	u := domain.User{ID: util.NewID(), Name: name, Email: name + "@example.com"}
	if err := mem.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func str(s string) *string { return &s }

func TestDeckOwnershipChecksNotFoundBeforeForbidden(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	bob := seedUser(t, mem, "bob")

	deck, err := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("Algebra"), Description: str("x")}))
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	if deck.OwnerID != alice.ID {
		t.Fatalf("owner = %q, want %q", deck.OwnerID, alice.ID)
	}

	if _, err := a.GetDeck(ctx, bob.ID, deck.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob get = %v, want ErrForbidden", err)
	}
	if _, err := a.GetDeck(ctx, bob.ID, util.NewID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing get = %v, want ErrNotFound", err)
	}
	if _, err := a.GetDeck(ctx, alice.ID, "-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("malformed id = %v, want ErrNotFound", err)
	}
	// Validation runs after authorization.
	if _, err := a.UpdateDeck(ctx, bob.ID, deck.ID, PayloadOf(domain.DeckInput{})); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob update = %v, want ErrForbidden", err)
	}
	if err := a.DeleteDeck(ctx, bob.ID, deck.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob delete = %v, want ErrForbidden", err)
	}

	var re *ResourceError
	_, err = a.GetDeck(ctx, bob.ID, deck.ID)
	if !errors.As(err, &re) || re.Resource != "deck" {
		t.Fatalf("expected deck ResourceError, got %v", err)
	}
}

func TestCreateDeckValidation(t *testing.T) {
	a, mem := newTestApp(t, false)
	alice := seedUser(t, mem, "alice")

	_, err := a.CreateDeck(context.Background(), alice.ID, PayloadOf(domain.DeckInput{Name: str("  ")}))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["name"]; !ok {
		t.Fatalf("missing name field error: %v", verr.Fields)
	}
	if _, ok := verr.Fields["description"]; !ok {
		t.Fatalf("missing description field error: %v", verr.Fields)
	}
	decks, _ := a.ListDecks(context.Background(), alice.ID)
	if len(decks) != 0 {
		t.Fatalf("decks = %d, want 0", len(decks))
	}
}

func TestUpdateDeckKeepsIdentityAndOwner(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	deck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))

	updated, err := a.UpdateDeck(ctx, alice.ID, deck.ID, PayloadOf(domain.DeckInput{Name: str("B"), Description: str("b")}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != deck.ID || updated.OwnerID != alice.ID {
		t.Fatalf("identity changed: %+v", updated)
	}
	if updated.Name != "B" || updated.Description != "b" {
		t.Fatalf("fields not applied: %+v", updated)
	}
}

func TestDeleteDeckCascadesCards(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	deck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))
	card, err := a.CreateCard(ctx, alice.ID, deck.ID, PayloadOf(domain.CardInput{Name: str("c1")}))
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if card.DeckID != deck.ID {
		t.Fatalf("route deck id not applied: %q", card.DeckID)
	}
	if err := a.DeleteDeck(ctx, alice.ID, deck.ID); err != nil {
		t.Fatalf("delete deck: %v", err)
	}
	if _, err := a.GetCard(ctx, alice.ID, card.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("card after cascade = %v, want ErrNotFound", err)
	}
}

func TestCardDeckReferences(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	bob := seedUser(t, mem, "bob")
	aliceDeck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))

	// Missing deck is rejected by the foreign key.
	_, err := a.CreateCard(ctx, bob.ID, "", PayloadOf(domain.CardInput{Name: str("c"), DeckID: str(util.NewID())}))
	if !errors.Is(err, ErrMalformedRequest) || !errors.Is(err, store.ErrForeignKey) {
		t.Fatalf("missing deck = %v, want malformed request", err)
	}

	// Another user's deck is accepted and the card is owned by its creator.
	card, err := a.CreateCard(ctx, bob.ID, "", PayloadOf(domain.CardInput{Name: str("c"), DeckID: str(aliceDeck.ID)}))
	if err != nil {
		t.Fatalf("cross-owner card: %v", err)
	}
	if card.OwnerID != bob.ID {
		t.Fatalf("card owner = %q, want bob", card.OwnerID)
	}
	cards, err := a.ListDeckCards(ctx, alice.ID, aliceDeck.ID)
	if err != nil || len(cards) != 1 {
		t.Fatalf("alice list = %v, %v", cards, err)
	}
	if _, err := a.ListDeckCards(ctx, bob.ID, aliceDeck.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob list = %v, want ErrForbidden", err)
	}
	if _, err := a.GetCard(ctx, alice.ID, card.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("alice get bob card = %v, want ErrForbidden", err)
	}
}

func TestStrictCardDecks(t *testing.T) {
	a, mem := newTestApp(t, true)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	bob := seedUser(t, mem, "bob")
	aliceDeck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))
	bobDeck, _ := a.CreateDeck(ctx, bob.ID, PayloadOf(domain.DeckInput{Name: str("B"), Description: str("b")}))

	if _, err := a.CreateCard(ctx, bob.ID, "", PayloadOf(domain.CardInput{Name: str("c"), DeckID: str(aliceDeck.ID)})); !errors.Is(err, ErrForbidden) {
		t.Fatalf("strict cross-owner = %v, want ErrForbidden", err)
	}
	if _, err := a.CreateCard(ctx, bob.ID, "", PayloadOf(domain.CardInput{Name: str("c"), DeckID: str(util.NewID())})); !errors.Is(err, ErrNotFound) {
		t.Fatalf("strict missing deck = %v, want ErrNotFound", err)
	}
	card, err := a.CreateCard(ctx, bob.ID, "", PayloadOf(domain.CardInput{Name: str("c"), DeckID: str(bobDeck.ID)}))
	if err != nil {
		t.Fatalf("own deck: %v", err)
	}
	if _, err := a.UpdateCard(ctx, bob.ID, card.ID, PayloadOf(domain.CardInput{Name: str("c2"), DeckID: str(aliceDeck.ID)})); !errors.Is(err, ErrForbidden) {
		t.Fatalf("strict move = %v, want ErrForbidden", err)
	}
}

func TestUpdateCardRequiresBothFields(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	deck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))
	card, _ := a.CreateCard(ctx, alice.ID, deck.ID, PayloadOf(domain.CardInput{Name: str("c")}))

	_, err := a.UpdateCard(ctx, alice.ID, card.ID, PayloadOf(domain.CardInput{Name: str("renamed")}))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["deck_id"] == "" {
		t.Fatalf("expected deck_id validation error, got %v", err)
	}
	if err := a.DeleteCard(ctx, alice.ID, card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	if err := a.DeleteCard(ctx, alice.ID, card.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestRegisterIssueTokenLogout(t *testing.T) {
	a, _ := newTestApp(t, false)
	ctx := context.Background()

	user, token, err := a.Register(ctx, domain.RegisterInput{Name: "Ann", Email: " Ann@Example.com ", Password: "Str0ng!Passw0rd"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ann@example.com" {
		t.Fatalf("email = %q, want lower-cased", user.Email)
	}
	got, err := a.UserFromToken(ctx, token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("UserFromToken = %+v, %v", got, err)
	}

	_, _, err = a.Register(ctx, domain.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "Str0ng!Passw0rd"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["email"] == "" {
		t.Fatalf("duplicate email = %v, want email field error", err)
	}

	if _, err := a.IssueToken(ctx, "ann@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v", err)
	}
	if _, err := a.IssueToken(ctx, "nobody@example.com", "Str0ng!Passw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v", err)
	}
	second, err := a.IssueToken(ctx, "ANN@example.com", "Str0ng!Passw0rd")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if err := a.Logout(ctx, second); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := a.UserFromToken(ctx, second); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("revoked token = %v, want ErrUnauthenticated", err)
	}
	if _, err := a.UserFromToken(ctx, token); err != nil {
		t.Fatalf("other token revoked too: %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	a, _ := newTestApp(t, false)
	_, _, err := a.Register(context.Background(), domain.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "short"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["password"] == "" {
		t.Fatalf("weak password = %v, want password field error", err)
	}
}

func TestNewRequiresDatabaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without store or database URL")
	}
}

func TestPayloadDecodedOnlyAfterAuthorization(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	bob := seedUser(t, mem, "bob")
	deck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))
	card, _ := a.CreateCard(ctx, alice.ID, deck.ID, PayloadOf(domain.CardInput{Name: str("c")}))

	errBody := errors.New("unreadable body")
	calls := 0
	deckPayload := func() (domain.DeckInput, error) {
		calls++
		return domain.DeckInput{}, errBody
	}
	cardPayload := func() (domain.CardInput, error) {
		calls++
		return domain.CardInput{}, errBody
	}

	if _, err := a.UpdateDeck(ctx, bob.ID, deck.ID, deckPayload); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign deck = %v, want ErrForbidden", err)
	}
	if _, err := a.UpdateDeck(ctx, alice.ID, util.NewID(), deckPayload); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing deck = %v, want ErrNotFound", err)
	}
	if _, err := a.UpdateCard(ctx, bob.ID, card.ID, cardPayload); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign card = %v, want ErrForbidden", err)
	}
	if calls != 0 {
		t.Fatalf("payload decoded %d times before authorization passed", calls)
	}
	if _, err := a.UpdateDeck(ctx, alice.ID, deck.ID, deckPayload); !errors.Is(err, errBody) {
		t.Fatalf("owner update = %v, want body error", err)
	}
}

func TestPayloadTypeErrorsMergeWithValidation(t *testing.T) {
	a, mem := newTestApp(t, false)
	alice := seedUser(t, mem, "alice")

	payload := func() (domain.DeckInput, error) {
		return domain.DeckInput{}, &ValidationError{Fields: domain.FieldErrors{"name": "name must be a string"}}
	}
	_, err := a.CreateDeck(context.Background(), alice.ID, payload)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["name"] != "name must be a string" {
		t.Fatalf("name = %q, want type message", verr.Fields["name"])
	}
	if verr.Fields["description"] == "" {
		t.Fatalf("description error dropped: %v", verr.Fields)
	}
}

func TestForeignWritesLeaveRowsUnchanged(t *testing.T) {
	a, mem := newTestApp(t, false)
	ctx := context.Background()
	alice := seedUser(t, mem, "alice")
	bob := seedUser(t, mem, "bob")
	deck, _ := a.CreateDeck(ctx, alice.ID, PayloadOf(domain.DeckInput{Name: str("A"), Description: str("a")}))
	card, _ := a.CreateCard(ctx, alice.ID, deck.ID, PayloadOf(domain.CardInput{Name: str("c")}))
	bobDeck, _ := a.CreateDeck(ctx, bob.ID, PayloadOf(domain.DeckInput{Name: str("B"), Description: str("b")}))

	if _, err := a.UpdateDeck(ctx, bob.ID, deck.ID, PayloadOf(domain.DeckInput{Name: str("X"), Description: str("x")})); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob update deck = %v", err)
	}
	if _, err := a.UpdateCard(ctx, bob.ID, card.ID, PayloadOf(domain.CardInput{Name: str("X"), DeckID: str(bobDeck.ID)})); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob update card = %v", err)
	}
	if err := a.DeleteCard(ctx, bob.ID, card.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bob delete card = %v", err)
	}

	storedDeck, _, _ := mem.GetDeck(ctx, deck.ID)
	if storedDeck != deck {
		t.Fatalf("deck changed: %+v, want %+v", storedDeck, deck)
	}
	storedCard, ok, _ := mem.GetCard(ctx, card.ID)
	if !ok || storedCard != card {
		t.Fatalf("card changed: %+v (exists %v), want %+v", storedCard, ok, card)
	}
}
