// Package models defines the persistent data structures for the application.
package models

import (
	"time"
)

// Kind identifies a collection type. All kinds share the same item shape;
// cards additionally belong to a section and keep a scratch history, dice
// options carry a role used to filter rolls.
type Kind string

const (
	KindCards    Kind = "cards"
	KindToys     Kind = "toys"
	KindLingerie Kind = "lingerie"
	KindCondoms  Kind = "condoms"
	KindLubes    Kind = "lubes"
	KindBooks    Kind = "books"
	KindDice     Kind = "dice"
)

// Kinds lists every known collection kind.
var Kinds = []Kind{KindCards, KindToys, KindLingerie, KindCondoms, KindLubes, KindBooks, KindDice}

// ParseKind validates a kind string from a URL path.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Drawable reports whether the kind participates in random draws.
// Books are a plain browse/upload collection.
func (k Kind) Drawable() bool {
	return k != KindBooks
}

// Tracked reports whether draws of this kind are recorded in the history
// ledger. Only cards keep per-event history; other kinds are counter-only.
func (k Kind) Tracked() bool {
	return k == KindCards
}

// DrawTitle returns the notification title announcing a draw of this kind.
func (k Kind) DrawTitle() string {
	switch k {
	case KindCards:
		return "New card scratched!"
	case KindToys:
		return "New toy selected!"
	case KindLingerie:
		return "New lingerie selected!"
	case KindCondoms:
		return "New condom selected!"
	case KindLubes:
		return "New lube selected!"
	case KindDice:
		return "Dice rolled!"
	default:
		return "New item selected!"
	}
}

// Item is a single uploaded image in a collection. EngagementCount only ever
// grows, by exactly one per successful draw; the bulk reset is the only
// operation allowed to zero it.
type Item struct {
	ID              string    `json:"id"`
	Kind            Kind      `json:"kind"`
	Locator         string    `json:"locator"`
	EngagementCount int       `json:"engagement_count"`
	SectionID       *string   `json:"section_id,omitempty"`
	Role            *string   `json:"role,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemFilter narrows a candidate set: SectionID restricts cards to one
// section, Role restricts dice options. Empty fields match everything.
type ItemFilter struct {
	SectionID string
	Role      string
}

// Matches reports whether the item satisfies the filter.
func (f ItemFilter) Matches(it Item) bool {
	if f.SectionID != "" && (it.SectionID == nil || *it.SectionID != f.SectionID) {
		return false
	}
	if f.Role != "" && (it.Role == nil || *it.Role != f.Role) {
		return false
	}
	return true
}
