package domain

import "testing"

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		owner     string
		want      Decision
	}{
		{name: "owner allowed", principal: "u-1", owner: "u-1", want: Allow},
		{name: "other user denied", principal: "u-2", owner: "u-1", want: Deny},
		{name: "empty principal denied", principal: "", owner: "u-1", want: Deny},
		{name: "empty owner denied", principal: "u-1", owner: "", want: Deny},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.principal, tc.owner); got != tc.want {
				t.Fatalf("Authorize(%q, %q) = %v, want %v", tc.principal, tc.owner, got, tc.want)
			}
		})
	}
}

func TestCardOwnershipIndependentOfDeck(t *testing.T) {
	deck := Deck{ID: "d-1", OwnerID: "u-1"}
	card := Card{ID: "c-1", DeckID: deck.ID, OwnerID: "u-2"}
	if !deck.OwnedBy("u-1") {
		t.Fatalf("deck owner should own deck")
	}
	if card.OwnedBy("u-1") {
		t.Fatalf("deck owner must not own a card recorded for another user")
	}
	if !card.OwnedBy("u-2") {
		t.Fatalf("card owner should own card")
	}
}
