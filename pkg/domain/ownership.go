package domain

// Decision is the outcome of an ownership check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Authorize grants access only when the principal is the recorded owner.
// An empty principal or owner id never matches.
func Authorize(principalID, ownerID string) Decision {
	if principalID == "" || ownerID == "" {
		return Deny
	}
	if principalID != ownerID {
		return Deny
	}
	return Allow
}

// OwnedBy reports whether the deck belongs to principalID.
func (d Deck) OwnedBy(principalID string) bool {
	return Authorize(principalID, d.OwnerID) == Allow
}

// OwnedBy reports whether the card belongs to principalID.
func (c Card) OwnedBy(principalID string) bool {
	return Authorize(principalID, c.OwnerID) == Allow
}
