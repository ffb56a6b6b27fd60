// Package resolve turns (date, kind, id) requests into concrete playable
// items, applying the fallback rules used by cross-day links.
package resolve

import (
	"github.com/benklinger/kamaole/internal/domain/catalog"
	"github.com/benklinger/kamaole/internal/domain/model"
)

// Resolver looks up playable items in a catalog snapshot. It is cheap to
// construct and holds no state beyond its configuration, so a fresh one
// is built per request against the current snapshot.
type Resolver struct {
	store *catalog.Store

	// partialBundles controls whether a bundle with some (but not all)
	// member ids missing is still playable. The original behavior is to
	// play it with fewer members and a lower total.
	partialBundles bool
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithPartialBundles sets whether partially-resolving bundles are
// playable. When false, a bundle missing any member resolves as absent.
func WithPartialBundles(allow bool) Option {
	return func(r *Resolver) {
		r.partialBundles = allow
	}
}

// New creates a Resolver over the given catalog snapshot.
func New(store *catalog.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:          store,
		partialBundles: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveExact looks up the item with the given kind and id on dateKey.
// A bundle additionally needs a playable member list, else it is absent.
func (r *Resolver) ResolveExact(dateKey string, kind model.ItemKind, id int) (model.ResolvedItem, bool) {
	day, ok := r.store.Day(dateKey)
	if !ok {
		return model.ResolvedItem{}, false
	}
	switch kind {
	case model.KindProduct:
		p, ok := r.store.ProductByID(day, id)
		if !ok {
			return model.ResolvedItem{}, false
		}
		return model.ResolvedItem{
			Kind:        model.KindProduct,
			ID:          p.ID,
			DisplayName: p.Name,
			Members:     []model.Product{p},
		}, true
	case model.KindBundle:
		b, ok := r.store.BundleByID(day, id)
		if !ok {
			return model.ResolvedItem{}, false
		}
		return r.resolveBundle(day, b)
	}
	return model.ResolvedItem{}, false
}

// ResolveWithFallback looks up preferredID on dateKey and, when the exact
// id is absent, substitutes the first item of kind in that day's ordered
// list. Used for cross-day links where the id may not exist on the other
// day. A day with no items of kind resolves as absent.
func (r *Resolver) ResolveWithFallback(dateKey string, kind model.ItemKind, preferredID int) (model.ResolvedItem, bool) {
	if item, ok := r.ResolveExact(dateKey, kind, preferredID); ok {
		return item, true
	}
	return r.FirstOfKind(dateKey, kind)
}

// FirstOfKind resolves the first item of kind on dateKey, by stored
// order. Used for default and complementary suggestions.
func (r *Resolver) FirstOfKind(dateKey string, kind model.ItemKind) (model.ResolvedItem, bool) {
	day, ok := r.store.Day(dateKey)
	if !ok {
		return model.ResolvedItem{}, false
	}
	switch kind {
	case model.KindProduct:
		if len(day.Products) == 0 {
			return model.ResolvedItem{}, false
		}
		p := day.Products[0]
		return model.ResolvedItem{
			Kind:        model.KindProduct,
			ID:          p.ID,
			DisplayName: p.Name,
			Members:     []model.Product{p},
		}, true
	case model.KindBundle:
		if len(day.Bundles) == 0 {
			return model.ResolvedItem{}, false
		}
		return r.resolveBundle(day, day.Bundles[0])
	}
	return model.ResolvedItem{}, false
}

// ComplementaryKind returns the other of the two item kinds.
func ComplementaryKind(kind model.ItemKind) model.ItemKind {
	return kind.Complement()
}

func (r *Resolver) resolveBundle(day model.DayRecord, b model.Bundle) (model.ResolvedItem, bool) {
	members := r.store.BundleMembers(day, b)
	if len(members) == 0 {
		return model.ResolvedItem{}, false
	}
	if !r.partialBundles && len(members) != len(b.MemberIDs) {
		return model.ResolvedItem{}, false
	}
	return model.ResolvedItem{
		Kind:        model.KindBundle,
		ID:          b.ID,
		DisplayName: b.Name,
		Members:     members,
	}, true
}
