// Package model contains domain models passed between layers.
package model

// ItemKind distinguishes the two playable item families. The historical
// "basket" and "meal" variants are both represented as KindBundle.
type ItemKind string

// Item kinds.
const (
	KindProduct ItemKind = "product"
	KindBundle  ItemKind = "bundle"
)

// Valid reports whether k is a known item kind.
func (k ItemKind) Valid() bool {
	return k == KindProduct || k == KindBundle
}

// Complement returns the other item kind, used to offer a second game
// type for the same day.
func (k ItemKind) Complement() ItemKind {
	if k == KindProduct {
		return KindBundle
	}
	return KindProduct
}

// ParseItemKind maps a request parameter onto an ItemKind. The legacy
// spellings "basket" and "meal" are accepted as aliases for KindBundle.
func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "product":
		return KindProduct, true
	case "bundle", "basket", "meal":
		return KindBundle, true
	}
	return "", false
}

// Product is a single priced item within a day's record. Prices are in
// major currency units; MinPrice and MaxPrice bound the guessing range.
// Price data is trusted input and is not validated beyond being numeric.
type Product struct {
	ID       int
	Name     string
	ImageRef string
	Price    float64
	MinPrice float64
	MaxPrice float64
}

// Bundle is a named group of products priced together. Its effective
// price is always derived from its members, never stored.
type Bundle struct {
	ID        int
	Name      string
	MemberIDs []int
}

// DayRecord holds one calendar day's playable content.
type DayRecord struct {
	Location string
	Products []Product
	Bundles  []Bundle
}

// ResolvedItem is the concrete playable item determined for a
// (date, kind, id) request. Members has length 1 for a plain product.
// It is recomputed on every request and never stored.
type ResolvedItem struct {
	Kind        ItemKind
	ID          int
	DisplayName string
	Members     []Product
}

// GuessSession carries a confirmed guess between the game and result
// views. It lives only in navigation parameters.
type GuessSession struct {
	Date         string
	Kind         ItemKind
	ItemID       int
	GuessedMinor int
}
