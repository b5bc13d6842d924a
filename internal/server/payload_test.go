package server

import (
	"errors"
	"testing"

	"flashdeck/internal/app"
	"flashdeck/pkg/domain"
)

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantBad    bool
		wantFields []string
	}{
		{name: "empty", body: "  "},
		{name: "null", body: "null"},
		{name: "object", body: `{"name":"n","deck_id":"d"}`},
		{name: "unknown field ignored", body: `{"name":"n","owner_id":"x"}`},
		{name: "truncated", body: `{"name":`, wantBad: true},
		{name: "array", body: `[1,2]`, wantBad: true},
		{name: "scalar", body: `42`, wantBad: true},
		{name: "one wrong type", body: `{"name":1,"deck_id":"d"}`, wantFields: []string{"name"}},
		{name: "two wrong types", body: `{"name":{},"deck_id":[]}`, wantFields: []string{"name", "deck_id"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeBody[domain.CardInput]([]byte(tc.body))
			if tc.wantBad {
				if !errors.Is(err, errInvalidBody) {
					t.Fatalf("err = %v, want errInvalidBody", err)
				}
				return
			}
			if len(tc.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *app.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(verr.Fields) != len(tc.wantFields) {
				t.Fatalf("fields = %v, want %v", verr.Fields, tc.wantFields)
			}
			for _, f := range tc.wantFields {
				if verr.Fields[f] == "" {
					t.Fatalf("missing field %q in %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestDecodeBodyKeepsWellTypedFields(t *testing.T) {
	in, err := decodeBody[domain.CardInput]([]byte(`{"name":1,"deck_id":"d"}`))
	var verr *app.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if in.DeckID == nil || *in.DeckID != "d" {
		t.Fatalf("deck_id = %v, want d", in.DeckID)
	}
}
